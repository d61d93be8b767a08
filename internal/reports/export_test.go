package reports

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	report := &Report{
		GeneratedAt: time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC),
		Counts:      map[string]int64{"profiles": 20, "quiz_attempts": 73},
		Violations:  []Violation{{Check: "quiz attempt score differs from response sum", Count: 2}},
		Personas: []PersonaAggregate{
			{Persona: "average", Users: 8, Sessions: 120, QuizAttempts: 40, AvgQuizScore: 0.61, PassRate: 0.55, LessonCompletionRate: 0.7},
			{Persona: "diligent", Users: 4, Sessions: 90, QuizAttempts: 33, AvgQuizScore: 0.82, PassRate: 0.9, LessonCompletionRate: 0.92},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, ExportWorkbook(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Personas", "Checks"}, f.GetSheetList())

	table, err := f.GetCellValue("Summary", "A4")
	require.NoError(t, err)
	assert.Equal(t, "profiles", table)
	rows, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "20", rows)

	persona, err := f.GetCellValue("Personas", "A2")
	require.NoError(t, err)
	assert.Equal(t, "average", persona)

	check, err := f.GetCellValue("Checks", "A2")
	require.NoError(t, err)
	assert.Equal(t, "quiz attempt score differs from response sum", check)
}

func TestExportWorkbookCleanReport(t *testing.T) {
	report := &Report{
		GeneratedAt: time.Now(),
		Counts:      map[string]int64{"profiles": 1},
	}

	path := filepath.Join(t.TempDir(), "clean.xlsx")
	require.NoError(t, ExportWorkbook(report, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	msg, err := f.GetCellValue("Checks", "A2")
	require.NoError(t, err)
	assert.Equal(t, "all checks passed", msg)
}
