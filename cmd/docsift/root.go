package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/home"
	"github.com/docsift/docsift/version"
)

var (
	cfgFile  string
	homeDir  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docsift",
	Short: "Schema-driven structured data extraction from PDF documents",
	Long: `Docsift extracts structured records from PDF documents by sending them
to an OpenAI-compatible endpoint together with a caller-supplied JSON Schema,
then writes the results as an aggregate JSON document.

The companion convert command flattens extraction output (or any JSON
object or array of objects) into CSV or XLSX tables.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Best effort; a missing .env file is fine.
		_ = godotenv.Load()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		cfg, err = config.Load(cfgFile, h.Path())
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		logger = newLogger(cfg.LogLevel)
		return nil
	},
}

// newLogger builds the process logger on stderr. Stdout carries only the
// machine-readable extraction and conversion output.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "docsift home directory (default: ~/.docsift)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error",
	)

	rootCmd.AddCommand(parseCmd, convertCmd, configCmd, versionCmd)
}
