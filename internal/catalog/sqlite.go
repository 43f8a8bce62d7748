package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Table is the products table written by the importer's SQLite output.
const Table = "products"

// LoadSQLite reads the normalized records from the importer's SQLite output.
// Row order follows the rowid, which preserves input order.
func LoadSQLite(path, storeBaseURL string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, title, section_name, brand_raw, image_url,
		availability, price_net, sale_price_net, currency, item_group_id, updated_at
		FROM ` + Table + ` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", Table, err)
	}
	defer rows.Close()

	var records []Product
	for rows.Next() {
		var p Product
		var salePrice sql.NullFloat64
		var sectionName, brandRaw, itemGroupID, updatedAt sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &sectionName, &brandRaw, &p.ImageURL,
			&p.Availability, &p.PriceNet, &salePrice, &p.Currency, &itemGroupID, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", Table, err)
		}
		p.SectionName = sectionName.String
		p.BrandRaw = brandRaw.String
		p.ItemGroupID = itemGroupID.String
		p.UpdatedAt = updatedAt.String
		p.SalePriceNet = salePrice.Float64
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", Table, err)
	}
	return New(records, storeBaseURL), nil
}
