// Package feed renders the loaded catalog into the three XML documents the
// server exposes: the Google Merchant feed, the sitemap index, and the
// paginated product sitemaps. All renderers are pure functions of the
// catalog, the config, and the render time.
package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/brand"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
)

// VATRate is the fixed tax multiplier applied to net prices.
const VATRate = 0.15

// SitemapProtocolMaxURLs is the hard cap on URLs per sitemap file.
const SitemapProtocolMaxURLs = 50000

// DefaultPageSize is the default number of products per sitemap page.
const DefaultPageSize = 25000

// ErrPageOutOfRange is returned for page numbers below 1 or beyond the last
// page of the catalog.
var ErrPageOutOfRange = errors.New("sitemap page out of range")

// Config carries the fixed URL and channel configuration the renderers need.
type Config struct {
	StoreBaseURL    string
	StaticBaseURL   string
	PageSize        int
	FeedTitle       string
	FeedDescription string
}

// EffectivePageSize clamps the configured page size to a sane positive value
// within the sitemap protocol limit.
func (c Config) EffectivePageSize() int {
	size := c.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > SitemapProtocolMaxURLs {
		size = SitemapProtocolMaxURLs
	}
	return size
}

// Gross applies VAT to a net price and formats it with two decimal places.
func Gross(net float64) string {
	return fmt.Sprintf("%.2f", math.Round(net*(1+VATRate)*100)/100)
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	NSG     string     `xml:"xmlns:g,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	Items       []feedItem `xml:"item"`
}

type feedItem struct {
	ID           string `xml:"g:id"`
	Title        string `xml:"g:title"`
	Description  string `xml:"g:description"`
	Link         string `xml:"g:link"`
	ImageLink    string `xml:"g:image_link"`
	Availability string `xml:"g:availability"`
	Price        string `xml:"g:price"`
	SalePrice    string `xml:"g:sale_price,omitempty"`
	Brand        string `xml:"g:brand"`
	Condition    string `xml:"g:condition"`
	ItemGroupID  string `xml:"g:item_group_id,omitempty"`
}

// RenderMerchantFeed serializes the whole catalog as an RSS 2.0 document with
// the Google Merchant namespace extension.
func RenderMerchantFeed(c *catalog.Catalog, cfg Config) ([]byte, error) {
	items := make([]feedItem, 0, c.Len())
	for _, p := range c.Products() {
		link := p.ProductURL
		if link == "" {
			link = cfg.StoreBaseURL
		}
		item := feedItem{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Link:         link,
			ImageLink:    p.ImageURL,
			Availability: p.Availability,
			Price:        Gross(p.PriceNet) + " " + p.Currency,
			Brand:        brand.Normalize(p.Title, p.BrandRaw),
			Condition:    "new",
			ItemGroupID:  p.ItemGroupID,
		}
		if p.SalePriceNet > 0 {
			item.SalePrice = Gross(p.SalePriceNet) + " " + p.Currency
		}
		items = append(items, item)
	}
	doc := rssFeed{
		Version: "2.0",
		NSG:     "http://base.google.com/ns/1.0",
		Channel: rssChannel{
			Title:       cfg.FeedTitle,
			Link:        cfg.StoreBaseURL,
			Description: cfg.FeedDescription,
			Items:       items,
		},
	}
	return encodeXML(doc)
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

type sitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// RenderSitemapIndex lists one sitemap entry per catalog page. All entries
// share a single last-modified stamp taken at render time.
func RenderSitemapIndex(c *catalog.Catalog, cfg Config, now time.Time) ([]byte, error) {
	pageSize := cfg.EffectivePageSize()
	totalPages := catalog.TotalPages(c.Len(), pageSize)
	lastMod := now.UTC().Format(time.RFC3339)

	refs := make([]sitemapRef, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		refs = append(refs, sitemapRef{
			Loc:     fmt.Sprintf("%s/sitemaps/products/%d", cfg.StaticBaseURL, page),
			LastMod: lastMod,
		})
	}
	return encodeXML(sitemapIndex{
		Xmlns:    "http://www.sitemaps.org/schemas/sitemap/0.9",
		Sitemaps: refs,
	})
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	NSImage string     `xml:"xmlns:image,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
	Image      urlImage `xml:"image:image"`
}

type urlImage struct {
	Loc string `xml:"image:loc"`
}

// RenderSitemapPage serializes one 1-based page of the catalog as a sitemap
// urlset. Pages outside [1, totalPages] yield ErrPageOutOfRange.
func RenderSitemapPage(c *catalog.Catalog, cfg Config, page int, now time.Time) ([]byte, error) {
	pageSize := cfg.EffectivePageSize()
	totalPages := catalog.TotalPages(c.Len(), pageSize)
	if page < 1 || page > totalPages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, totalPages)
	}

	slice := c.Page(page, pageSize)
	entries := make([]urlEntry, 0, len(slice))
	for _, p := range slice {
		loc := p.ProductURL
		if loc == "" {
			loc = cfg.StoreBaseURL
		}
		lastMod := p.UpdatedAt
		if lastMod == "" {
			lastMod = now.UTC().Format(time.RFC3339)
		}
		entries = append(entries, urlEntry{
			Loc:        loc,
			LastMod:    lastMod,
			ChangeFreq: "monthly",
			Priority:   "0.8",
			Image:      urlImage{Loc: p.ImageURL},
		})
	}
	return encodeXML(urlSet{
		Xmlns:   "http://www.sitemaps.org/schemas/sitemap/0.9",
		NSImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:    entries,
	})
}

func encodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode xml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
