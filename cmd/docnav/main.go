// Package main provides the docnav CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"docnav/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	// Global flags
	configPath string
	stateDir   string
	verbose    bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docnav",
		Short: "Open documents at pages, slides, lines, cells and bookmarks",
		Long: `docnav parses document references such as

  file:///C:/contracts/agreement.docx?bookmark=Signature
  docs/manual.pdf#page=12
  report.xlsx#sheet=Budget!C10

and decides how to open them at the requested location.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				commonlog.Configure(2, nil)
			} else {
				commonlog.Configure(0, nil)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "Directory for persisted jumps")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(variantsCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(linksCmd())
	rootCmd.AddCommand(jumpsCmd())

	return rootCmd
}

// loadConfig reads --config when given and applies DOCNAV_* overrides.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return config.Config{}, err
		}
		defer f.Close()
		if cfg, err = config.LoadFromJSON(f); err != nil {
			return config.Config{}, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}
	cfg = cfg.ApplyEnv()
	if stateDir != "" {
		cfg.StateDir = stateDir
	}
	return cfg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
