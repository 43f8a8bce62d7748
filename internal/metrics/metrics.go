package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	MerchantFeedRenders prometheus.Counter
	SitemapIndexRenders prometheus.Counter
	SitemapPageRenders  prometheus.Counter
	BadPageRequests     prometheus.Counter
	RenderSeconds       prometheus.Histogram
	CatalogProducts     prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	merchant := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_merchant_renders_total"})
	index := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_sitemap_index_renders_total"})
	pages := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_sitemap_page_renders_total"})
	badPages := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_sitemap_bad_page_requests_total"})
	renderSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "feed_render_seconds",
		Buckets: prometheus.DefBuckets,
	})
	products := prometheus.NewGauge(prometheus.GaugeOpts{Name: "feed_catalog_products"})

	r.MustRegister(merchant, index, pages, badPages, renderSec, products)
	return &Registry{
		reg:                 r,
		MerchantFeedRenders: merchant,
		SitemapIndexRenders: index,
		SitemapPageRenders:  pages,
		BadPageRequests:     badPages,
		RenderSeconds:       renderSec,
		CatalogProducts:     products,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
