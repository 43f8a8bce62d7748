// Package server wires the feed renderers into HTTP endpoints.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/feed"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/metrics"
)

const xmlContentType = "application/xml; charset=utf-8"

// Server serves the three XML documents from an immutable catalog.
type Server struct {
	catalog *catalog.Catalog
	cfg     feed.Config
	metrics *metrics.Registry
	log     zerolog.Logger
	now     func() time.Time
}

func New(c *catalog.Catalog, cfg feed.Config, m *metrics.Registry, log zerolog.Logger) *Server {
	s := &Server{
		catalog: c,
		cfg:     cfg,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
	m.CatalogProducts.Set(float64(c.Len()))
	return s
}

// Router builds the echo instance with all routes registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.requestLogger)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	e.GET("/merchant-feed", s.handleMerchantFeed)
	e.GET("/sitemap-index", s.handleSitemapIndex)
	e.GET("/sitemaps/products/:page", s.handleSitemapPage)
	return e
}

func (s *Server) handleMerchantFeed(c echo.Context) error {
	start := s.now()
	body, err := feed.RenderMerchantFeed(s.catalog, s.cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("merchant feed render failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	s.metrics.MerchantFeedRenders.Inc()
	s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	return c.Blob(http.StatusOK, xmlContentType, body)
}

func (s *Server) handleSitemapIndex(c echo.Context) error {
	start := s.now()
	body, err := feed.RenderSitemapIndex(s.catalog, s.cfg, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("sitemap index render failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	s.metrics.SitemapIndexRenders.Inc()
	s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	return c.Blob(http.StatusOK, xmlContentType, body)
}

func (s *Server) handleSitemapPage(c echo.Context) error {
	raw := c.Param("page")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		s.metrics.BadPageRequests.Inc()
		return c.String(http.StatusBadRequest, fmt.Sprintf("invalid sitemap page: %q", raw))
	}

	start := s.now()
	body, err := feed.RenderSitemapPage(s.catalog, s.cfg, page, s.now())
	if errors.Is(err, feed.ErrPageOutOfRange) {
		return c.String(http.StatusNotFound, "sitemap page not found")
	}
	if err != nil {
		s.log.Error().Err(err).Int("page", page).Msg("sitemap page render failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	s.metrics.SitemapPageRenders.Inc()
	s.metrics.RenderSeconds.Observe(time.Since(start).Seconds())
	return c.Blob(http.StatusOK, xmlContentType, body)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := s.now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Info().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return err
	}
}
