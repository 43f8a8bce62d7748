package importer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
)

// WriteJSON writes the normalized records as an indented JSON array, creating
// the parent directory if needed.
func WriteJSON(path string, records []catalog.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteSQLite replaces the SQLite catalog at path with the given records.
// Insert order preserves input order, so a rowid scan reads the catalog back
// in the same order the CSV had.
func WriteSQLite(path string, records []catalog.Product) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE "` + catalog.Table + `" (
		"id" TEXT NOT NULL,
		"title" TEXT,
		"section_name" TEXT,
		"brand_raw" TEXT,
		"image_url" TEXT,
		"availability" TEXT,
		"price_net" REAL NOT NULL,
		"sale_price_net" REAL,
		"currency" TEXT,
		"item_group_id" TEXT,
		"updated_at" TEXT
	)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO "` + catalog.Table + `"
		(id, title, section_name, brand_raw, image_url, availability,
		 price_net, sale_price_net, currency, item_group_id, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range records {
		var salePrice any
		if p.SalePriceNet > 0 {
			salePrice = p.SalePriceNet
		}
		if _, err := stmt.Exec(p.ID, p.Title, p.SectionName, p.BrandRaw, p.ImageURL,
			p.Availability, p.PriceNet, salePrice, p.Currency, p.ItemGroupID, p.UpdatedAt); err != nil {
			return fmt.Errorf("insert %s: %w", p.ID, err)
		}
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_products_id ON ` + catalog.Table + `(id)`); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}
