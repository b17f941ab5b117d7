package interfaces

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
)

// BuildStatementPDF renders a statement as PDF.
func BuildStatementPDF(stmt *statement.Statement) ([]byte, error) {
	if stmt == nil {
		return nil, statement.ErrNilStatement
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Monthly Interfacing Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Country: %s (%s)", stmt.Country.Name, stmt.Country.ISO))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", stmt.Period))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Release date: %s", stmt.ReleaseDate.Format("2006-01-02")))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Due until: %s", stmt.DueUntilDate.Format("2006-01-02")))
	pdf.Ln(8)

	writeLineTable(pdf, "Clearing", stmt.ClearingLines, stmt.ClearingSubtotal.StringFixed(2))
	writeLineTable(pdf, "Billing", stmt.BillingLines, stmt.BillingSubtotal.StringFixed(2))

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total interfacing due: %s", stmt.TotalInterfacingDue.StringFixed(2)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Account Statement")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	account := [][2]string{
		{"Overdue balance", stmt.Account.OverdueBalance.StringFixed(2)},
		{"Due balance", stmt.Account.DueBalance.StringFixed(2)},
		{"Payments by Sixt", stmt.Account.PaymentBySixt.StringFixed(2)},
		{"Payments by partner", stmt.Account.PaymentByPartner.StringFixed(2)},
		{"Total interfacing amount", stmt.Account.TotalInterfacingAmount.StringFixed(2)},
		{"Balance open items", stmt.Account.BalanceOpenItems.StringFixed(2)},
	}
	for _, row := range account {
		pdf.CellFormat(90, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeLineTable(pdf *gofpdf.Fpdf, title string, lines []statement.Line, subtotal string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, title)
	pdf.Ln(6)
	pdf.CellFormat(30, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Reference", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		date := ""
		if line.Date != nil {
			date = line.Date.Format("2006-01-02")
		}
		pdf.CellFormat(30, 6, line.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line.Reference, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(155, 6, "Subtotal", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, subtotal, "1", 0, "R", false, 0, "")
	pdf.Ln(8)
}

// BuildStatementXLSX renders a statement as XLSX.
func BuildStatementXLSX(stmt *statement.Statement) ([]byte, error) {
	if stmt == nil {
		return nil, statement.ErrNilStatement
	}
	f := excelize.NewFile()
	summarySheet := "summary"
	linesSheet := "lines"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(linesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Monthly Interfacing Statement")
	_ = f.SetCellValue(summarySheet, "A3", "Country")
	_ = f.SetCellValue(summarySheet, "B3", stmt.Country.Name)
	_ = f.SetCellValue(summarySheet, "A4", "Period")
	_ = f.SetCellValue(summarySheet, "B4", stmt.Period)
	_ = f.SetCellValue(summarySheet, "A5", "Release date")
	_ = f.SetCellValue(summarySheet, "B5", stmt.ReleaseDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A6", "Due until")
	_ = f.SetCellValue(summarySheet, "B6", stmt.DueUntilDate.Format("2006-01-02"))
	_ = f.SetCellValue(summarySheet, "A7", "Clearing subtotal")
	_ = f.SetCellValue(summarySheet, "B7", stmt.ClearingSubtotal.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A8", "Billing subtotal")
	_ = f.SetCellValue(summarySheet, "B8", stmt.BillingSubtotal.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A9", "Total interfacing due")
	_ = f.SetCellValue(summarySheet, "B9", stmt.TotalInterfacingDue.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A11", "Overdue balance")
	_ = f.SetCellValue(summarySheet, "B11", stmt.Account.OverdueBalance.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A12", "Due balance")
	_ = f.SetCellValue(summarySheet, "B12", stmt.Account.DueBalance.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A13", "Payments by Sixt")
	_ = f.SetCellValue(summarySheet, "B13", stmt.Account.PaymentBySixt.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A14", "Payments by partner")
	_ = f.SetCellValue(summarySheet, "B14", stmt.Account.PaymentByPartner.InexactFloat64())
	_ = f.SetCellValue(summarySheet, "A15", "Balance open items")
	_ = f.SetCellValue(summarySheet, "B15", stmt.Account.BalanceOpenItems.InexactFloat64())

	_ = f.SetCellValue(linesSheet, "A1", "Section")
	_ = f.SetCellValue(linesSheet, "B1", "Type")
	_ = f.SetCellValue(linesSheet, "C1", "Reference")
	_ = f.SetCellValue(linesSheet, "D1", "Date")
	_ = f.SetCellValue(linesSheet, "E1", "Description")
	_ = f.SetCellValue(linesSheet, "F1", "Amount")
	row := 2
	row = writeLinesSheet(f, linesSheet, "Clearing", stmt.ClearingLines, row)
	writeLinesSheet(f, linesSheet, "Billing", stmt.BillingLines, row)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeLinesSheet(f *excelize.File, sheet, section string, lines []statement.Line, row int) int {
	for _, line := range lines {
		date := ""
		if line.Date != nil {
			date = line.Date.Format("2006-01-02")
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), section)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.Type)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), line.Reference)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), date)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.Description)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), line.Amount.InexactFloat64())
		row++
	}
	return row
}
