package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/observability"
	"github.com/jonathan/faculty-enricher/internal/pipeline"
)

var enrichCommand = &cobra.Command{
	Use:   "enrich",
	Short: "Build faculty records for one department",
	Long: `Runs the full pipeline for a department: discover -> aggregate -> extract -> persist.

Records go to every configured sink (--db-url, --sqlite, --es-url, --output). With no sink
configured they are printed to stdout as JSON. Configuration can be loaded from a JSON file
using --config; command-line arguments override config file values.`,
	RunE: runEnrich,
}

var (
	enrichDepartment   string
	enrichListing      string
	enrichUniversity   string
	enrichWorkers      int
	enrichUseBrowser   bool
	enrichTimeout      int
	enrichTitleSegment int
	enrichAPIKey       string
	enrichMapsKey      string
	enrichNamesFile    string
	enrichDatabaseURL  string
	enrichSQLitePath   string
	enrichESURL        string
	enrichESIndex      string
	enrichOutput       string
)

// addDepartmentFlags registers the flags shared by enrich and discover.
func addDepartmentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&enrichDepartment, "department", "d", "", "Department homepage URL (primary base for faculty links)")
	cmd.Flags().StringVar(&enrichListing, "listing", "", "Faculty listing page URL (defaults to --department)")
	cmd.Flags().StringVar(&enrichUniversity, "university", "", "University homepage URL (looked up when omitted)")
	cmd.Flags().BoolVar(&enrichUseBrowser, "use-browser", false, "Fall back to headless Chrome for script-built pages")
	cmd.Flags().IntVar(&enrichTimeout, "timeout", 0, "Per-request timeout in seconds")
	cmd.Flags().StringVar(&enrichAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&enrichNamesFile, "names-file", "", "File of known person names, one per line; replaces the Gemini tagger")
	cmd.Flags().StringVar(&enrichSQLitePath, "sqlite", "", "SQLite database file used as page cache and sink")
	cmd.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

func init() {
	addDepartmentFlags(enrichCommand)
	enrichCommand.Flags().IntVarP(&enrichWorkers, "workers", "w", 0, "Number of people processed concurrently")
	enrichCommand.Flags().IntVar(&enrichTitleSegment, "title-segment", config.DefaultTitleSegment, "Segment of a '|'-separated page title that holds the name")
	enrichCommand.Flags().StringVar(&enrichMapsKey, "maps-api-key", "", "Google Maps API key (optional, defaults to GOOGLE_MAPS_API_KEY env var)")
	enrichCommand.Flags().StringVar(&enrichESURL, "es-url", "", "Elasticsearch URL (optional, defaults to ELASTICSEARCH_URL env var)")
	enrichCommand.Flags().StringVar(&enrichESIndex, "es-index", "", "Elasticsearch index name")
	enrichCommand.Flags().StringVarP(&enrichOutput, "output", "o", "", "Write records as JSON to this file, '-' for stdout")

	rootCmd.AddCommand(enrichCommand)
}

// applyDepartmentFlags copies the shared flags that were explicitly set.
func applyDepartmentFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("department") {
		cfg.DepartmentURL = enrichDepartment
	}
	if flags.Changed("listing") {
		cfg.ListingURL = enrichListing
	}
	if flags.Changed("university") {
		cfg.UniversityURL = enrichUniversity
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = enrichUseBrowser
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = enrichTimeout
	}
	if flags.Changed("api-key") {
		cfg.GeminiAPIKey = enrichAPIKey
	}
	if flags.Changed("sqlite") {
		cfg.SQLitePath = enrichSQLitePath
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = enrichDatabaseURL
	}
}

func applyEnrichFlags(cmd *cobra.Command, cfg *config.Config) {
	applyDepartmentFlags(cmd, cfg)
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = enrichWorkers
	}
	if flags.Changed("title-segment") {
		seg := enrichTitleSegment
		cfg.TitleSegment = &seg
	}
	if flags.Changed("maps-api-key") {
		cfg.MapsAPIKey = enrichMapsKey
	}
	if flags.Changed("es-url") {
		cfg.ElasticsearchURL = enrichESURL
	}
	if flags.Changed("es-index") {
		cfg.ElasticsearchIndex = enrichESIndex
	}
	if flags.Changed("output") {
		cfg.OutputPath = enrichOutput
	}
}

// reportWriter keeps human output off stdout when stdout carries the records.
func reportWriter(cmd *cobra.Command, sinkNames []string) io.Writer {
	for _, name := range sinkNames {
		if name == "stdout" {
			return cmd.ErrOrStderr()
		}
	}
	return cmd.OutOrStdout()
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadSettings(cmd, func(cfg *config.Config) { applyEnrichFlags(cmd, cfg) })
	if err != nil {
		return err
	}
	a, err := newApp(cfg, enrichNamesFile)
	if err != nil {
		return err
	}
	defer a.close()

	dept, err := a.department(ctx)
	if err != nil {
		return err
	}
	if err := a.openStores(ctx); err != nil {
		return err
	}
	discoverer, err := a.buildDiscoverer(ctx)
	if err != nil {
		return err
	}
	extractor, err := a.buildExtractor(ctx)
	if err != nil {
		return err
	}
	sink, err := a.buildSinks(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	out := reportWriter(cmd, a.sinkNames)
	opts := pipeline.Options{Workers: cfg.Workers, Logger: a.log}
	if cfg.Verbose {
		opts.OnProgress = progressPrinter(out)
	}

	orch := pipeline.New(discoverer, a.buildAggregator(), extractor, sink, opts)
	result, runErr := orch.RunWithStats(ctx, dept)

	var persistErr *pipeline.PersistenceError
	if runErr != nil && !errors.As(runErr, &persistErr) {
		return runErr
	}

	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		for i := range result.Records {
			printer.PrintRecord(&result.Records[i])
		}
	}
	printer.PrintRunSummary(observability.RunSummary{
		DepartmentURL: dept.DepartmentURL,
		Discovered:    result.Stats.Discovered,
		Extracted:     result.Stats.Extracted,
		Failed:        result.Stats.Failed,
		Duration:      result.Stats.Duration,
		Sinks:         a.sinkNames,
	})
	return runErr
}

// progressPrinter writes one line per progress event. Workers report concurrently,
// so writes to out are serialized.
func progressPrinter(out io.Writer) pipeline.ProgressCallback {
	var mu sync.Mutex
	return func(ev pipeline.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Total > 0 {
			_, _ = fmt.Fprintf(out, "[%s %d/%d] %s %s\n", ev.Step, ev.Index, ev.Total, ev.Message, ev.URL)
			return
		}
		_, _ = fmt.Fprintf(out, "[%s] %s %s\n", ev.Step, ev.Message, ev.URL)
	}
}
