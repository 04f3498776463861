package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/entdash/backoffice/internal/domain/models"
)

const (
	teamsSheet = "Teams"
	dailySheet = "Daily"
)

// WriteWorkbook renders a cycle summary as an XLSX workbook with one sheet of
// team rows and one of daily rows, written to w.
func WriteWorkbook(summary models.CycleSummary, w io.Writer) error {
	f, err := buildWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(summary models.CycleSummary) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the teams sheet so the workbook opens on it.
	if err := f.SetSheetName("Sheet1", teamsSheet); err != nil {
		return nil, fmt.Errorf("rename teams sheet: %w", err)
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, fmt.Errorf("create daily sheet: %w", err)
	}

	teamHeaders := []interface{}{"Team Code", "In", "Out", "Total Credits Loaded", "Bonus", "Bonus %", "Holding %"}
	if err := f.SetSheetRow(teamsSheet, "A1", &teamHeaders); err != nil {
		return nil, fmt.Errorf("write teams header: %w", err)
	}
	for i, row := range summary.Data {
		values := []interface{}{row.TeamCode, row.In, row.Out, row.TotalCreditsLoaded, row.Bonus, row.BonusPct, row.HoldingPct}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(teamsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write team row %d: %w", i, err)
		}
	}

	dailyHeaders := []interface{}{"Date", "In", "Out", "Total Credits Loaded", "Bonus", "Holding %"}
	if err := f.SetSheetRow(dailySheet, "A1", &dailyHeaders); err != nil {
		return nil, fmt.Errorf("write daily header: %w", err)
	}
	for i, row := range summary.Daily {
		values := []interface{}{row.Date, row.In, row.Out, row.TotalCreditsLoaded, row.Bonus, row.HoldingPct}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(dailySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write daily row %d: %w", i, err)
		}
	}

	return f, nil
}
