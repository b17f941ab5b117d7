package interfaces

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

// ErrUnsupportedFileType is returned for extensions other than csv/xlsx.
var ErrUnsupportedFileType = errors.New("upload: unsupported file type")

// ErrEmptyFile is returned when a file has no data rows.
var ErrEmptyFile = errors.New("upload: empty file")

var dateLayouts = []string{"02.01.2006", "2006-01-02", "02/01/2006"}

// ParseTable reads an uploaded csv or xlsx file into raw string cells.
func ParseTable(reader io.Reader, ext string) ([][]string, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		r := csv.NewReader(reader)
		r.FieldsPerRecord = -1
		return r.ReadAll()
	case ".xlsx":
		f, err := excelize.OpenReader(reader)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		return f.GetRows(sheet)
	default:
		return nil, ErrUnsupportedFileType
	}
}

// DecodeLedgerRows maps raw cells into ledger rows. The first record is
// the header; columns are matched by normalized header name. Malformed
// amounts become zero and malformed dates become nil here, so the
// engines downstream always receive clean typed input.
func DecodeLedgerRows(records [][]string) ([]ledger.Row, error) {
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}
	cols := headerIndex(records[0])
	batchID := uuid.New().String()
	rows := make([]ledger.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		row := ledger.Row{
			ID:            uuid.New().String(),
			Konto:         cell(record, cols, "konto"),
			Type:          cell(record, cols, "type"),
			Amount:        parseAmount(cell(record, cols, "betraghauswaehrung")),
			PostingDate:   parseDate(cell(record, cols, "buchungsdatum")),
			DocumentDate:  parseDate(cell(record, cols, "belegdatum")),
			NetDueDate:    parseDate(cell(record, cols, "nettofaelligkeit")),
			Text:          cell(record, cols, "text"),
			Reference:     cell(record, cols, "referenz"),
			ReferenceKey3: cell(record, cols, "referenzschluessel3"),
			DocumentType:  cell(record, cols, "belegart"),
			BatchID:       batchID,
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// DecodeBillingCostRows maps raw cells into billing cost rows.
func DecodeBillingCostRows(records [][]string) ([]ledger.BillingCostRow, error) {
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}
	cols := headerIndex(records[0])
	batchID := uuid.New().String()
	rows := make([]ledger.BillingCostRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		row := ledger.BillingCostRow{
			ID:             uuid.New().String(),
			CostCenter:     firstCell(record, cols, "costcenter", "kst"),
			BookingProgram: firstCell(record, cols, "bookingprogram", "buchungsprogramm"),
			Amount:         parseAmount(firstCell(record, cols, "amountlocalcurrency", "betrag")),
			YearMonth:      firstCell(record, cols, "yearmonth", "jahrmonat"),
			Description:    firstCell(record, cols, "description", "beschreibung"),
			BatchID:        batchID,
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.Join(strings.Fields(name), ""))
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

func cell(record []string, cols map[string]int, key string) string {
	i, ok := cols[key]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func firstCell(record []string, cols map[string]int, keys ...string) string {
	for _, key := range keys {
		if value := cell(record, cols, key); value != "" {
			return value
		}
	}
	return ""
}

func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func parseAmount(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	// European exports write 1.234,56; normalize before parsing.
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		if f, ferr := strconv.ParseFloat(value, 64); ferr == nil {
			return decimal.NewFromFloat(f)
		}
		return decimal.Zero
	}
	return amount
}

func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
