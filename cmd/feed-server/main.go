// Command feed-server loads the normalized catalog once at startup and
// serves the merchant feed, the sitemap index, and the paginated product
// sitemaps as XML.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/feed"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/metrics"
	"github.com/darbsaudisa-create/darb-sitemaps/internal/server"
)

// AppConfig defines all configurable parameters of the server, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Addr        string `envconfig:"ADDR" default:"127.0.0.1:8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// CatalogPath accepts the importer's JSON or SQLite output, picked by
	// file extension.
	CatalogPath string `envconfig:"CATALOG_PATH" default:"data/products.json"`

	StoreBaseURL    string `envconfig:"STORE_BASE_URL" default:"https://darb.com.sa"`
	StaticBaseURL   string `envconfig:"STATIC_BASE_URL" default:"https://static.darb.com.sa"`
	SitemapPageSize int    `envconfig:"SITEMAP_PAGE_SIZE" default:"25000"`

	FeedTitle       string `envconfig:"FEED_TITLE" default:"Darb Product Feed"`
	FeedDescription string `envconfig:"FEED_DESCRIPTION" default:"Google Merchant feed for Darb store"`
}

func main() {
	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("process environment config")
	}
	if cfg.Environment == "production" {
		log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	}

	cat, err := catalog.Load(cfg.CatalogPath, cfg.StoreBaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("load catalog")
	}
	log.Info().Int("products", cat.Len()).Str("path", cfg.CatalogPath).Msg("catalog loaded")

	feedCfg := feed.Config{
		StoreBaseURL:    cfg.StoreBaseURL,
		StaticBaseURL:   cfg.StaticBaseURL,
		PageSize:        cfg.SitemapPageSize,
		FeedTitle:       cfg.FeedTitle,
		FeedDescription: cfg.FeedDescription,
	}

	srv := server.New(cat, feedCfg, metrics.NewRegistry(), log)
	e := srv.Router()

	log.Info().Str("addr", cfg.Addr).Msg("feed-server listening")
	if err := e.Start(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
