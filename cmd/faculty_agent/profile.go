package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/observability"
	"github.com/jonathan/faculty-enricher/internal/pipeline"
	"github.com/jonathan/faculty-enricher/internal/types"
)

var profileCommand = &cobra.Command{
	Use:   "profile <faculty-url>",
	Short: "Extract the record of a single faculty page",
	Long: `Aggregates the biography of one faculty homepage and extracts its fields without
running discovery. The record is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

var (
	profileDepartment   string
	profileUniversity   string
	profileTitleSegment int
	profileAPIKey       string
	profileMapsKey      string
	profileNamesFile    string
)

func init() {
	profileCommand.Flags().StringVarP(&profileDepartment, "department", "d", "", "Department homepage URL")
	profileCommand.Flags().StringVar(&profileUniversity, "university", "", "University homepage URL (looked up when omitted)")
	profileCommand.Flags().IntVar(&profileTitleSegment, "title-segment", config.DefaultTitleSegment, "Segment of a '|'-separated page title that holds the name")
	profileCommand.Flags().StringVar(&profileAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	profileCommand.Flags().StringVar(&profileMapsKey, "maps-api-key", "", "Google Maps API key (optional, defaults to GOOGLE_MAPS_API_KEY env var)")
	profileCommand.Flags().StringVar(&profileNamesFile, "names-file", "", "File of known person names, one per line; replaces the Gemini tagger")

	rootCmd.AddCommand(profileCommand)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadSettings(cmd, func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("department") {
			cfg.DepartmentURL = profileDepartment
		}
		if flags.Changed("university") {
			cfg.UniversityURL = profileUniversity
		}
		if flags.Changed("title-segment") {
			seg := profileTitleSegment
			cfg.TitleSegment = &seg
		}
		if flags.Changed("api-key") {
			cfg.GeminiAPIKey = profileAPIKey
		}
		if flags.Changed("maps-api-key") {
			cfg.MapsAPIKey = profileMapsKey
		}
	})
	if err != nil {
		return err
	}
	a, err := newApp(cfg, profileNamesFile)
	if err != nil {
		return err
	}
	defer a.close()

	dept, err := a.department(ctx)
	if err != nil {
		return err
	}
	extractor, err := a.buildExtractor(ctx)
	if err != nil {
		return err
	}

	orch := pipeline.New(nil, a.buildAggregator(), extractor, nil, pipeline.Options{Logger: a.log})
	rec, err := orch.Process(ctx, args[0], dept)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRecord(&rec)
	}
	data, err := json.MarshalIndent([]types.FacultyRecord{rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
