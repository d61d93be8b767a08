package main

import (
	"fmt"

	"github.com/learnpath/datasim/internal/reports"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <report.xlsx>",
		Short: "Export the consistency report as an xlsx workbook",
		Long: `Export runs the same checks as the report command and writes the
result as a workbook with Summary, Personas and Checks sheets.

Examples:
  datasim export run-report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, logger, err := setup()
			if err != nil {
				return err
			}

			report, err := reports.NewChecker(db, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := reports.ExportWorkbook(report, args[0]); err != nil {
				return err
			}
			fmt.Printf("report written to %s\n", args[0])
			return nil
		},
	}
}
