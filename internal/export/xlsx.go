package export

import (
	"fmt"

	"github.com/shiftboard/backend/internal/types"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

var headerRow = []string{
	"Agent", "Lateness (min)", "Adherence (%)", "Conformance (%)",
	"Logged Time", "Wrap-Up Time", "Leads", "Productivity",
}

// XLSX renders reports as Excel workbooks
type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (*XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (*XLSX) Filename(report types.Report) string {
	return report.ID + ".xlsx"
}

// Export writes one sheet with a header row followed by one row per agent
func (*XLSX) Export(report types.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range headerRow {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range report.Data {
		values := []any{
			row.Name, row.Lateness, row.Adherence, row.Conformance,
			row.LoggedTime, row.WrapUpTime, row.Leads, row.Productivity,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
