// Command import-products converts a merchant CSV export into the normalized
// product catalog: a JSON array plus a SQLite copy of the same records.
// Invalid rows are dropped and counted; only a missing input file is fatal.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/darbsaudisa-create/darb-sitemaps/internal/importer"
)

var (
	inputPath  = flag.String("input", "products.csv", "Input CSV path")
	jsonPath   = flag.String("json", "data/products.json", "Normalized JSON output path")
	sqlitePath = flag.String("sqlite", "data/products.sqlite", "SQLite output path (empty = skip)")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	if _, err := os.Stat(*inputPath); err != nil {
		log.Fatal().Err(err).Str("path", *inputPath).
			Msg("input CSV not found, put the export next to the binary or pass -input")
	}

	records, report, err := importer.ImportFile(*inputPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	if err := importer.WriteJSON(*jsonPath, records); err != nil {
		log.Fatal().Err(err).Str("path", *jsonPath).Msg("write json failed")
	}
	if *sqlitePath != "" {
		if err := importer.WriteSQLite(*sqlitePath, records); err != nil {
			log.Fatal().Err(err).Str("path", *sqlitePath).Msg("write sqlite failed")
		}
	}

	log.Info().
		Int("rows_read", report.RowsRead).
		Int("rows_kept", report.RowsKept).
		Int("skipped_no_id", report.SkippedNoID).
		Int("skipped_no_price", report.SkippedNoPrice).
		Str("json", *jsonPath).
		Str("sqlite", *sqlitePath).
		Msg("import finished")
}
