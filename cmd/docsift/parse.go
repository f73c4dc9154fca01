package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/discover"
	"github.com/docsift/docsift/internal/extract"
	"github.com/docsift/docsift/internal/provider"
	"github.com/docsift/docsift/internal/schema"
)

var (
	parseSchema     string
	parseOutput     string
	parseRecursive  bool
	parseIgnoreDirs []string
	parseWorkers    int
	parsePretty     bool
	parseAPIKey     string
	parseAPIBase    string
	parseModel      string
	parseTimeout    int
)

var parseCmd = &cobra.Command{
	Use:   "parse <path>",
	Short: "Extract structured data from PDF files",
	Long: `Extract structured data from one PDF file or a directory of PDF files.

Each file is sent to the extraction endpoint together with the JSON Schema
given via --schema; the endpoint returns a JSON object matching the schema.
Results are aggregated into one JSON object keyed by file path, printed to
stdout and optionally saved with --output.

A file that fails to extract gets an error entry under its key; failures
never abort the rest of the batch and nothing is retried.

Examples:
  docsift parse invoice.pdf --schema invoice_schema.json
  docsift parse ./invoices --schema invoice_schema.json -r --output results.json
  docsift parse ./docs --schema s.json --ignore-dirs archive,drafts --max-workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sch, err := schema.Load(parseSchema)
		if err != nil {
			return err
		}

		files, err := discover.Find(args[0], discover.Options{
			Recursive:  parseRecursive,
			IgnoreDirs: parseIgnoreDirs,
		})
		if err != nil {
			return err
		}
		if len(files) == 0 {
			logger.Warn("no PDF files found", "path", args[0])
			fmt.Println("{}")
			return nil
		}

		apiKey := parseAPIKey
		if apiKey == "" {
			apiKey = cfg.ResolvedAPIKey()
		}
		if apiKey == "" {
			return fmt.Errorf("no API key: set OPENAI_API_KEY or pass --api-key")
		}
		apiBase := parseAPIBase
		if apiBase == "" {
			apiBase = cfg.ResolvedAPIBase()
		}

		model := parseModel
		if model == "" {
			model = cfg.Model
		}
		timeout := cfg.Timeout()
		if parseTimeout > 0 {
			timeout = time.Duration(parseTimeout) * time.Second
		}
		workers := parseWorkers
		if workers <= 0 {
			workers = cfg.MaxWorkers
		}

		client := provider.NewOpenAIClient(provider.OpenAIConfig{
			APIKey:  apiKey,
			BaseURL: apiBase,
			Model:   model,
			Timeout: timeout,
		})

		logger.Info("starting extraction",
			"files", len(files), "schema", sch.Name, "model", model, "workers", workers)

		runner := extract.NewRunner(extract.RunnerConfig{
			Client:  client,
			Schema:  sch,
			Workers: workers,
			Logger:  logger,
		})
		batch := runner.Run(ctx, files)

		for _, ferr := range batch.Errors {
			logger.Error("file failed", "file", filepath.Base(ferr.Path), "error", ferr.Err)
		}

		if err := batch.WriteOutput(os.Stdout, parsePretty); err != nil {
			return err
		}
		if parseOutput != "" {
			if err := batch.SaveOutput(parseOutput, parsePretty); err != nil {
				return err
			}
			logger.Info("results saved", "path", parseOutput)
		}

		// Per-file failures are reported inline; partial success still
		// exits zero.
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseSchema, "schema", "", "JSON Schema file describing the output shape (required)")
	parseCmd.Flags().StringVar(&parseOutput, "output", "", "also save aggregate JSON to this file")
	parseCmd.Flags().BoolVarP(&parseRecursive, "recursive", "r", false, "recurse into subdirectories")
	parseCmd.Flags().StringSliceVar(&parseIgnoreDirs, "ignore-dirs", nil, "directory names to skip while walking")
	parseCmd.Flags().IntVar(&parseWorkers, "max-workers", 0, "max concurrent extraction calls (default from config: 4)")
	parseCmd.Flags().BoolVar(&parsePretty, "pretty", false, "indent the aggregate JSON output")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "API key (overrides config and OPENAI_API_KEY)")
	parseCmd.Flags().StringVar(&parseAPIBase, "api-base", "", "endpoint base URL (overrides config and OPENAI_API_BASE)")
	parseCmd.Flags().StringVar(&parseModel, "model", "", "extraction model (default from config: gpt-4o-mini)")
	parseCmd.Flags().IntVar(&parseTimeout, "timeout", 0, "per-call HTTP timeout in seconds (default from config: 300)")

	if err := parseCmd.MarkFlagRequired("schema"); err != nil {
		panic(err)
	}
}
