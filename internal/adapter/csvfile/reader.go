// Package csvfile loads raw observation rows from a wide CSV export: one
// header row, then one row per station-day. Core columns are matched by name
// (case-insensitive); every other column is passed through untouched on
// RawObservation.Extra.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/weather-obs-pipeline/internal/domain"
)

// Core column names, matched case-insensitively. STATION/DATE follow the
// NOAA daily-summaries export; "id" is the notebook-style alias.
var coreColumns = map[string]string{
	"id":      "id",
	"station": "id",
	"date":    "date",
	"prcp":    "prcp",
	"snow":    "snow",
	"tmax":    "tmax",
	"tmin":    "tmin",
}

// Reader loads RawObservation rows from a CSV file.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given file path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Load reads the whole file into memory. The pipeline is a one-shot bounded
// transformation, so there is no streaming mode.
func (r *Reader) Load() ([]domain.RawObservation, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open observations file: %w", err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}

	r.logger.Info("observations loaded", "path", r.path, "rows", len(rows))
	return rows, nil
}

// Parse decodes CSV content from an io.Reader. Exposed separately so tests
// and other loaders can feed in-memory data.
func Parse(src io.Reader) ([]domain.RawObservation, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // short rows read as missing fields, not errors

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	header := records[0]
	core := map[string]int{}
	extras := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if field, ok := coreColumns[strings.ToLower(name)]; ok {
			core[field] = i
			continue
		}
		extras[name] = i
	}
	for _, field := range []string{"id", "date"} {
		if _, ok := core[field]; !ok {
			return nil, fmt.Errorf("missing required column %q", field)
		}
	}

	out := make([]domain.RawObservation, 0, len(records)-1)
	for _, row := range records[1:] {
		obs := domain.RawObservation{
			ID:   get(row, core, "id"),
			Date: get(row, core, "date"),
			Prcp: get(row, core, "prcp"),
			Snow: get(row, core, "snow"),
			Tmax: get(row, core, "tmax"),
			Tmin: get(row, core, "tmin"),
		}
		if len(extras) > 0 {
			obs.Extra = make(map[string]string, len(extras))
			for name, i := range extras {
				if i < len(row) {
					obs.Extra[name] = strings.TrimSpace(row[i])
				}
			}
		}
		out = append(out, obs)
	}
	return out, nil
}

func get(row []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
