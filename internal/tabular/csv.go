// Package tabular renders flattened records as CSV, XLSX, or key/value
// listings.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/docsift/docsift/internal/flatten"
)

// WriteCSV writes one row per record with columns in header order. Fields
// missing from a record render blank; values containing the delimiter,
// quotes, or newlines are quoted per RFC 4180.
func WriteCSV(w io.Writer, headers []string, records []*flatten.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(headers))
	for _, rec := range records {
		for i, h := range headers {
			v, _ := rec.Get(h)
			row[i] = v
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
