package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/feed"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/metrics"
)

func testServer(t *testing.T, productCount int) *Server {
	t.Helper()
	records := make([]catalog.Product, productCount)
	for i := range records {
		records[i] = catalog.Product{
			ID:       fmt.Sprintf("p%d", i+1),
			Title:    fmt.Sprintf("منتج %d", i+1),
			ImageURL: fmt.Sprintf("https://img/%d.jpg", i+1),
			PriceNet: 100,
			Currency: "SAR",
		}
	}
	cfg := feed.Config{
		StoreBaseURL:    "https://darb.com.sa",
		StaticBaseURL:   "https://static.darb.com.sa",
		PageSize:        2,
		FeedTitle:       "Darb Product Feed",
		FeedDescription: "Google Merchant feed for Darb store",
	}
	return New(catalog.New(records, cfg.StoreBaseURL), cfg, metrics.NewRegistry(), zerolog.Nop())
}

func doGET(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doGET(t, testServer(t, 1), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMerchantFeedEndpoint(t *testing.T) {
	rec := doGET(t, testServer(t, 3), "/merchant-feed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<g:id>p1</g:id>")
	assert.Contains(t, rec.Body.String(), "<g:price>115.00 SAR</g:price>")
}

func TestSitemapIndexEndpoint(t *testing.T) {
	rec := doGET(t, testServer(t, 5), "/sitemap-index")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, strings.Count(rec.Body.String(), "<sitemap>"))
	assert.Contains(t, rec.Body.String(), "https://static.darb.com.sa/sitemaps/products/3")
}

func TestSitemapPageEndpoint(t *testing.T) {
	s := testServer(t, 5)

	rec := doGET(t, s, "/sitemaps/products/2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "<url>"))
	assert.Contains(t, body, "p3")
	assert.Contains(t, body, "p4")
}

func TestSitemapPageNotNumeric(t *testing.T) {
	rec := doGET(t, testServer(t, 5), "/sitemaps/products/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid sitemap page")
}

func TestSitemapPageZeroOrNegative(t *testing.T) {
	s := testServer(t, 5)
	assert.Equal(t, http.StatusBadRequest, doGET(t, s, "/sitemaps/products/0").Code)
	assert.Equal(t, http.StatusBadRequest, doGET(t, s, "/sitemaps/products/-1").Code)
}

func TestSitemapPagePastEnd(t *testing.T) {
	rec := doGET(t, testServer(t, 5), "/sitemaps/products/4")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "sitemap page not found")
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, 5)
	doGET(t, s, "/merchant-feed")

	rec := doGET(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "feed_catalog_products 5")
}
