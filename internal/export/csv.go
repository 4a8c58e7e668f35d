// Package export renders aggregation tables as delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"sundarban-extract/internal/extract"
)

// NA marks a window whose reduction carried no data for the band.
const NA = "NA"

// Write renders the table: a header row year,month,<band>,latitude,
// longitude followed by one record per window, in window order.
func Write(w io.Writer, t extract.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "month", t.Column(), "latitude", "longitude"}); err != nil {
		return err
	}
	for _, row := range t.Rows {
		value := NA
		if row.Value != nil {
			value = formatFloat(*row.Value)
		}
		record := []string{
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Month),
			value,
			formatFloat(row.Latitude),
			formatFloat(row.Longitude),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path, creating parent directories as
// needed. An empty table still produces a file holding just the header
// row.
func WriteFile(path string, t extract.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
