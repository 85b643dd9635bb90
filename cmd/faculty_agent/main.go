// Package main provides the entry point for the faculty-enricher CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faculty_agent",
	Short: "Faculty directory enrichment",
	Long: `faculty_agent turns a university department's faculty listing page into structured
faculty records: it discovers each person's homepage, collects the biography text,
extracts name, contact details, expertise and location, and writes the records to
PostgreSQL, SQLite, Elasticsearch or a JSON file.`,
	SilenceUsage: true,
}

var (
	globalConfigPath string
	globalLogLevel   string
	globalVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Print detailed progress information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
