package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/faculty-enricher/internal/schemas"
)

var validateCommand = &cobra.Command{
	Use:   "validate <records.json>",
	Short: "Validate a records JSON file against the faculty record schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := schemas.ValidateRecordsFile(args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCommand)
}
