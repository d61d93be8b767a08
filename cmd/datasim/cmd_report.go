package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/learnpath/datasim/internal/reports"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-check generated data consistency and summarize per persona",
		Long: `Report reads the generated data back from the database, re-validates
the temporal and scoring invariants in SQL, and prints per-persona
aggregates. The command fails when any check finds offending rows.

Examples:
  datasim report
  datasim report --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, logger, err := setup()
			if err != nil {
				return err
			}

			report, err := reports.NewChecker(db, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
					return err
				}
			} else {
				printReport(report)
			}

			if report.HasViolations() {
				return fmt.Errorf("%d consistency checks failed", len(report.Violations))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printReport(report *reports.Report) {
	fmt.Println("table counts:")
	tables := make([]string, 0, len(report.Counts))
	for t := range report.Counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Printf("  %-24s %d\n", t, report.Counts[t])
	}

	fmt.Println("personas:")
	for _, p := range report.Personas {
		fmt.Printf("  %-12s users=%-4d sessions=%-5d attempts=%-5d avg_score=%.2f pass_rate=%.2f lesson_completion=%.2f\n",
			p.Persona, p.Users, p.Sessions, p.QuizAttempts, p.AvgQuizScore, p.PassRate, p.LessonCompletionRate)
	}

	if report.HasViolations() {
		fmt.Println("violations:")
		for _, v := range report.Violations {
			fmt.Printf("  %s: %d rows\n", v.Check, v.Count)
		}
	} else {
		fmt.Println("all consistency checks passed")
	}
}
