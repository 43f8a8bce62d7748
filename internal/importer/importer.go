// Package importer converts a merchant CSV export into the normalized record
// list consumed by the feed server. Rows that cannot be used are dropped and
// counted, never fatal; only a missing input file aborts the run.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/catalog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Report summarizes an import run.
type Report struct {
	RowsRead       int
	RowsKept       int
	SkippedNoID    int
	SkippedNoPrice int
}

// ImportFile reads the CSV at path and returns the validated records in input
// order plus the run report. Invalid rows are logged and counted.
func ImportFile(path string, log zerolog.Logger) ([]catalog.Product, Report, error) {
	headers, rows, err := readCSV(path)
	if err != nil {
		return nil, Report{}, err
	}
	records, report := normalizeRows(headers, rows, log)
	return records, report, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, rec)
	}
	return headers, rows, nil
}

func normalizeRows(headers []string, rows [][]string, log zerolog.Logger) ([]catalog.Product, Report) {
	report := Report{RowsRead: len(rows)}

	idCol := resolveColumn(headers, "id")
	titleCol := resolveColumn(headers, "title")
	sectionCol := resolveColumn(headers, "section_name", "section_n")
	brandCol := resolveColumn(headers, "brand_raw", "brand")
	imageCol := resolveColumn(headers, "image_url")
	availCol := resolveColumn(headers, "availability", "availabilit")
	priceCol := resolveColumn(headers, "price_net")
	saleCol := resolveColumn(headers, "sale_price_net", "sale_price")
	currencyCol := resolveColumn(headers, "currency")
	groupCol := resolveColumn(headers, "item_group_id")

	records := make([]catalog.Product, 0, len(rows))
	for i, row := range rows {
		field := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return row[col]
		}

		id := strings.TrimSpace(field(idCol))
		title := field(titleCol)
		if id == "" {
			report.SkippedNoID++
			log.Warn().Int("row", i).Str("title", title).
				Msg("dropping row without id")
			continue
		}

		priceRaw := field(priceCol)
		priceNet, ok := ParsePrice(priceRaw)
		if !ok || priceNet == 0 {
			report.SkippedNoPrice++
			log.Warn().Int("row", i).Str("id", id).Str("title", title).
				Str("price_net", priceRaw).Msg("dropping row without valid price")
			continue
		}

		salePrice, ok := ParsePrice(field(saleCol))
		if !ok || salePrice == 0 {
			salePrice = 0 // zero means absent
		}

		currency := strings.ToUpper(field(currencyCol))
		if currency == "" {
			currency = catalog.DefaultCurrency
		}

		records = append(records, catalog.Product{
			ID:           id,
			Title:        title,
			SectionName:  field(sectionCol),
			BrandRaw:     field(brandCol),
			ImageURL:     field(imageCol),
			Availability: catalog.NormalizeAvailability(field(availCol)),
			PriceNet:     priceNet,
			SalePriceNet: salePrice,
			Currency:     currency,
			ItemGroupID:  field(groupCol),
		})
	}
	report.RowsKept = len(records)
	return records, report
}

// resolveColumn finds the index of the first alias present in the header row.
// Header names are compared after lowercasing and stripping whitespace and
// any UTF-8 BOM artifact. Returns -1 when no alias matches.
func resolveColumn(headers []string, aliases ...string) int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}
	for _, alias := range aliases {
		want := normalizeHeader(alias)
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}
	return -1
}

var headerSpaces = regexp.MustCompile(`\s+`)

func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = headerSpaces.ReplaceAllString(h, "")
	return strings.ReplaceAll(h, "\uFEFF", "")
}

// priceJunk matches everything that is not a digit, a decimal separator
// (comma or Arabic comma), or a period.
var priceJunk = regexp.MustCompile(`[^0-9,،.]+`)

// ParsePrice converts a merchant-formatted price string to a number. Both
// comma variants are treated as the decimal separator ("631,30" -> 631.30).
// Returns false when the cleaned string is empty or does not parse; a
// thousands-separated value like "1,234.56" cleans to "1.234.56" and is
// therefore rejected as well.
func ParsePrice(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	s = priceJunk.ReplaceAllString(s, "")
	s = strings.NewReplacer(",", ".", "،", ".").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
