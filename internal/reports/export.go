package reports

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook writes the report as an xlsx workbook with a sheet per
// section: table counts, persona aggregates, and consistency checks.
func ExportWorkbook(report *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to set up summary sheet: %w", err)
	}

	f.SetCellValue(summary, "A1", "Generated At")
	f.SetCellValue(summary, "B1", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(summary, "A3", "Table")
	f.SetCellValue(summary, "B3", "Rows")

	tables := make([]string, 0, len(report.Counts))
	for t := range report.Counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for i, t := range tables {
		row := 4 + i
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), t)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), report.Counts[t])
	}

	const personas = "Personas"
	if _, err := f.NewSheet(personas); err != nil {
		return fmt.Errorf("failed to add personas sheet: %w", err)
	}
	personaHeaders := []string{"Persona", "Users", "Sessions", "Quiz Attempts", "Avg Quiz Score", "Pass Rate", "Lesson Completion Rate"}
	for i, h := range personaHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(personas, cell, h)
	}
	for i, p := range report.Personas {
		row := i + 2
		values := []any{p.Persona, p.Users, p.Sessions, p.QuizAttempts, p.AvgQuizScore, p.PassRate, p.LessonCompletionRate}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(personas, cell, v)
		}
	}

	const checks = "Checks"
	if _, err := f.NewSheet(checks); err != nil {
		return fmt.Errorf("failed to add checks sheet: %w", err)
	}
	f.SetCellValue(checks, "A1", "Check")
	f.SetCellValue(checks, "B1", "Offending Rows")
	if len(report.Violations) == 0 {
		f.SetCellValue(checks, "A2", "all checks passed")
		f.SetCellValue(checks, "B2", 0)
	}
	for i, v := range report.Violations {
		row := i + 2
		f.SetCellValue(checks, fmt.Sprintf("A%d", row), v.Check)
		f.SetCellValue(checks, fmt.Sprintf("B%d", row), v.Count)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
