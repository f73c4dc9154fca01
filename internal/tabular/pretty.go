package tabular

import (
	"fmt"
	"io"
	"sort"

	"github.com/docsift/docsift/internal/flatten"
)

// WritePretty prints a record's flattened key/value pairs one per line,
// sorted by key. Used for field discovery before choosing --headers.
func WritePretty(w io.Writer, rec *flatten.Record) error {
	keys := append([]string(nil), rec.Keys()...)
	sort.Strings(keys)

	for _, k := range keys {
		v, _ := rec.Get(k)
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, v); err != nil {
			return fmt.Errorf("failed to write field listing: %w", err)
		}
	}
	return nil
}
