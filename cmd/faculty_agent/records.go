package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/db"
	"github.com/jonathan/faculty-enricher/internal/observability"
	"github.com/jonathan/faculty-enricher/internal/types"
)

var recordsCommand = &cobra.Command{
	Use:   "records",
	Short: "List faculty records stored in SQLite or PostgreSQL",
	RunE:  runRecords,
}

var (
	recordsSQLitePath  string
	recordsDatabaseURL string
	recordsDepartment  string
	recordsHomepage    string
	recordsLimit       int
	recordsJSON        bool
)

func init() {
	recordsCommand.Flags().StringVar(&recordsSQLitePath, "sqlite", "", "SQLite database file")
	recordsCommand.Flags().StringVar(&recordsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	recordsCommand.Flags().StringVarP(&recordsDepartment, "department", "d", "", "Only records of this department URL")
	recordsCommand.Flags().StringVar(&recordsHomepage, "homepage", "", "Show the single record with this homepage URL")
	recordsCommand.Flags().IntVar(&recordsLimit, "limit", db.DefaultListLimit, "Maximum number of records")
	recordsCommand.Flags().BoolVar(&recordsJSON, "json", false, "Print records as JSON")

	rootCmd.AddCommand(recordsCommand)
}

// recordStore is the read side shared by the SQLite and PostgreSQL stores.
type recordStore interface {
	ListRecords(ctx context.Context, filters db.RecordFilters) ([]types.FacultyRecord, error)
	GetRecordByHomepage(ctx context.Context, homepageURL string) (*types.FacultyRecord, error)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadSettings(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("sqlite") {
			cfg.SQLitePath = recordsSQLitePath
		}
		if cmd.Flags().Changed("db-url") {
			cfg.DatabaseURL = recordsDatabaseURL
		}
	})
	if err != nil {
		return err
	}
	a, err := newApp(cfg, "")
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.SQLitePath == "" && cfg.DatabaseURL == "" {
		return errors.New("--sqlite or --db-url is required")
	}
	if err := a.openStores(ctx); err != nil {
		return err
	}
	var store recordStore = a.postgres
	if a.sqlite != nil {
		store = a.sqlite
	}

	var records []types.FacultyRecord
	if recordsHomepage != "" {
		rec, err := store.GetRecordByHomepage(ctx, recordsHomepage)
		if err != nil {
			return err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	} else {
		records, err = store.ListRecords(ctx, db.RecordFilters{DepartmentURL: recordsDepartment, Limit: recordsLimit})
		if err != nil {
			return err
		}
	}

	if recordsJSON {
		if records == nil {
			records = []types.FacultyRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRecordTable(records)
	return nil
}
