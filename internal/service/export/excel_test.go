package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/entdash/backoffice/internal/domain/models"
)

func TestWriteWorkbook(t *testing.T) {
	summary := models.CycleSummary{
		Data: []models.TeamTotal{
			{TeamCode: "ent1", In: 100, Out: 40, TotalCreditsLoaded: 110, Bonus: 10, BonusPct: 10, HoldingPct: 60},
			{TeamCode: "Total", In: 100, Out: 40, TotalCreditsLoaded: 110, Bonus: 10, BonusPct: 10, HoldingPct: 60},
		},
		Daily: []models.DailyTotal{
			{Date: "2025-01-10", In: 100, Out: 40, TotalCreditsLoaded: 110, Bonus: 10, HoldingPct: 60},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(summary, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Teams", "Daily"}, f.GetSheetList())

	header, err := f.GetCellValue("Teams", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Team Code", header)

	code, err := f.GetCellValue("Teams", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ent1", code)

	in, err := f.GetCellValue("Teams", "B2")
	require.NoError(t, err)
	assert.Equal(t, "100", in)

	holding, err := f.GetCellValue("Teams", "G2")
	require.NoError(t, err)
	assert.Equal(t, "60", holding)

	total, err := f.GetCellValue("Teams", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)

	date, err := f.GetCellValue("Daily", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", date)

	// The daily sheet has no bonus percentage column.
	dailyLast, err := f.GetCellValue("Daily", "F1")
	require.NoError(t, err)
	assert.Equal(t, "Holding %", dailyLast)
}

func TestWriteWorkbookEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(models.CycleSummary{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Teams")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
