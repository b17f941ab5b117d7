package interfaces

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	fixvar "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/domain"
)

// BuildOverviewXLSX renders the all-countries deviation overview as XLSX.
func BuildOverviewXLSX(period string, rows []fixvar.OverviewRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "overview"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Fix/Variable Deviation Overview")
	_ = f.SetCellValue(sheet, "B1", period)

	headers := []string{"Country", "ISO", "Upload Fix", "Upload Variable", "Ledger Fix", "Ledger Variable", "Fix Deviation", "Variable Deviation"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, row := range rows {
		line := i + 4
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.Country.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.Country.ISO)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.UploadFix.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.UploadVariable.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.LedgerFix.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", line), row.LedgerVariable.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", line), row.FixDeviation.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", line), row.VariableDeviation.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
