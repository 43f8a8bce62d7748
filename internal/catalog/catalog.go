// Package catalog holds the canonical in-memory product representation and
// the loaders that build it from the normalized JSON or SQLite output of
// cmd/import-products.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	InStock    = "in stock"
	OutOfStock = "out of stock"

	DefaultCurrency = "SAR"
)

// Product is the canonical entity. PriceNet is guaranteed positive for every
// product that made it through the importer; SalePriceNet == 0 means absent.
type Product struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	ProductURL   string  `json:"product_url,omitempty"`
	ImageURL     string  `json:"image_url"`
	Availability string  `json:"availability"`
	PriceNet     float64 `json:"price_net"`
	SalePriceNet float64 `json:"sale_price_net,omitempty"`
	Currency     string  `json:"currency"`
	BrandRaw     string  `json:"brand_raw,omitempty"`
	SectionName  string  `json:"section_name,omitempty"`
	ItemGroupID  string  `json:"item_group_id,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

// Catalog is an immutable, fully normalized product list. It is built once at
// process start and only read afterwards.
type Catalog struct {
	products []Product
}

// New normalizes the given records into a catalog: it synthesizes the
// description and product URL when absent and coerces availability and
// currency to their canonical values.
func New(records []Product, storeBaseURL string) *Catalog {
	products := make([]Product, 0, len(records))
	for _, p := range records {
		if strings.TrimSpace(p.Description) == "" {
			p.Description = buildDescription(p.Title, p.SectionName)
		}
		if strings.TrimSpace(p.ProductURL) == "" {
			p.ProductURL = buildProductURL(storeBaseURL, p.Title, p.ID)
		}
		p.Availability = NormalizeAvailability(p.Availability)
		if p.Currency == "" {
			p.Currency = DefaultCurrency
		}
		p.Currency = strings.ToUpper(p.Currency)
		products = append(products, p)
	}
	return &Catalog{products: products}
}

func (c *Catalog) Len() int { return len(c.products) }

func (c *Catalog) Products() []Product { return c.products }

// Page returns the 1-based page slice for the given page size. The caller is
// expected to have validated the page number against TotalPages.
func (c *Catalog) Page(page, pageSize int) []Product {
	start := (page - 1) * pageSize
	if start >= len(c.products) {
		return nil
	}
	end := start + pageSize
	if end > len(c.products) {
		end = len(c.products)
	}
	return c.products[start:end]
}

// TotalPages reports how many fixed-size pages cover total items. An empty
// catalog still occupies one page so the sitemap index is never empty.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// NormalizeAvailability maps any unrecognized value to "in stock".
func NormalizeAvailability(v string) string {
	if strings.TrimSpace(v) == OutOfStock {
		return OutOfStock
	}
	return InStock
}

func buildDescription(title, sectionName string) string {
	sectionPart := "من أقسام درب المتنوعة"
	if sectionName != "" {
		sectionPart = "من قسم " + sectionName
	}
	return title + " — اطلبها من درب لقطع غيار السيارات (DARB) " + sectionPart +
		". شحن سريع لجميع مدن المملكة، ومتوفّر خيار التقسيط عبر تمارا وتابي."
}

var (
	slugSpaces = regexp.MustCompile(`\s+`)
	slugStrip  = regexp.MustCompile(`[/\\?&#%]`)
)

// SlugifyTitle turns a product title into a URL path segment: whitespace runs
// become dashes, characters that would break the URL are dropped.
func SlugifyTitle(title string) string {
	s := strings.TrimSpace(title)
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugStrip.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

func buildProductURL(storeBaseURL, title, id string) string {
	return fmt.Sprintf("%s/%s/p%s", strings.TrimRight(storeBaseURL, "/"), SlugifyTitle(title), id)
}

// Load reads the catalog from path, picking the decoder by file extension.
func Load(path, storeBaseURL string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return LoadSQLite(path, storeBaseURL)
	default:
		return LoadJSON(path, storeBaseURL)
	}
}

// LoadJSON reads a JSON array of normalized records, as written by the
// importer.
func LoadJSON(path, storeBaseURL string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var records []Product
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(records, storeBaseURL), nil
}
