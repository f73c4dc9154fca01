package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/flatten"
	"github.com/docsift/docsift/internal/tabular"
)

var (
	convertOutput  string
	convertHeaders []string
	convertPretty  bool
	convertToCSV   bool
	convertToXLSX  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.json>",
	Short: "Flatten JSON extraction output into CSV or XLSX",
	Long: `Flatten a JSON document into tabular form.

The input is a single JSON object (one row) or an array of objects (one row
each). Nested keys are joined with the configured separator; array elements
expand to indexed columns (items.0, items.1, ...). The column set is the
union of keys across all rows, in first-seen order, unless --headers names
a subset.

Use --pretty to print the flattened fields of the first record instead of
writing a file, to discover which columns a conversion would produce.

Examples:
  docsift convert results.json
  docsift convert results.json --output report.csv --headers invoice_number,total
  docsift convert results.json --to-xlsx
  docsift convert results.json --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]

		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		doc, err := flatten.Decode(data)
		if err != nil {
			return fmt.Errorf("input is not valid JSON: %w", err)
		}

		records, err := flatten.Records(doc, cfg.Separator)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("input contains no records")
		}

		if convertPretty {
			// Field discovery only; no file write even with --output.
			return tabular.WritePretty(os.Stdout, records[0])
		}

		headers := convertHeaders
		if len(headers) == 0 {
			headers = flatten.Headers(records)
		}

		if convertToCSV && convertToXLSX {
			return fmt.Errorf("--to-csv and --to-xlsx are mutually exclusive")
		}

		if convertToXLSX {
			output := convertOutput
			if output == "" {
				output = defaultOutputPath(input, ".xlsx")
			}
			if err := tabular.WriteXLSX(output, headers, records); err != nil {
				return err
			}
			logger.Info("wrote spreadsheet", "path", output, "rows", len(records), "columns", len(headers))
			return nil
		}

		output := convertOutput
		if output == "" {
			output = defaultOutputPath(input, ".csv")
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := tabular.WriteCSV(f, headers, records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("wrote CSV", "path", output, "rows", len(records), "columns", len(headers))
		return nil
	},
}

// defaultOutputPath swaps the input's extension, keeping its directory.
func defaultOutputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func init() {
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "output file (default: input name with .csv/.xlsx extension)")
	convertCmd.Flags().StringSliceVar(&convertHeaders, "headers", nil, "columns to include, in order (default: union of all keys)")
	convertCmd.Flags().BoolVar(&convertPretty, "pretty", false, "print flattened fields of the first record; writes nothing")
	convertCmd.Flags().BoolVar(&convertToCSV, "to-csv", false, "write CSV output (default)")
	convertCmd.Flags().BoolVar(&convertToXLSX, "to-xlsx", false, "write XLSX output")
}
