package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/observability"
	"github.com/jonathan/faculty-enricher/internal/types"
)

var discoverCommand = &cobra.Command{
	Use:   "discover",
	Short: "List the faculty homepage URLs of a department",
	Long: `Renders the department's faculty listing page, keeps the anchors whose text the tagger
recognizes as a person's name, and prints each reachable homepage URL on its own line in
listing order.`,
	RunE: runDiscover,
}

func init() {
	addDepartmentFlags(discoverCommand)
	rootCmd.AddCommand(discoverCommand)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadSettings(cmd, func(cfg *config.Config) { applyDepartmentFlags(cmd, cfg) })
	if err != nil {
		return err
	}
	if cfg.DepartmentURL == "" {
		return errors.New("--department is required (via flag or config)")
	}
	a, err := newApp(cfg, enrichNamesFile)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openStores(ctx); err != nil {
		return err
	}
	discoverer, err := a.buildDiscoverer(ctx)
	if err != nil {
		return err
	}

	dept := types.Department{DepartmentURL: cfg.DepartmentURL, ListingURL: cfg.ListingURL, UniversityURL: cfg.UniversityURL}
	urls, err := discoverer.Discover(ctx, dept)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDiscoveredURLs(dept.Listing(), urls)
	}
	for _, u := range urls {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
	}
	return nil
}
