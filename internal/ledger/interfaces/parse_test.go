package interfaces

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTableCSV(t *testing.T) {
	input := strings.NewReader("Konto,Type,Betrag Hauswaehrung\n140100,Clearing,\"-1.234,56\"\n")
	records, err := ParseTable(input, ".csv")
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1][2] != "-1.234,56" {
		t.Fatalf("unexpected cell: %q", records[1][2])
	}
}

func TestParseTableUnsupportedExtension(t *testing.T) {
	if _, err := ParseTable(strings.NewReader("x"), ".pdf"); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestDecodeLedgerRows(t *testing.T) {
	records := [][]string{
		{"Konto", "Type", "Betrag Hauswaehrung", "Buchungsdatum", "Nettofaelligkeit", "Text", "Referenz", "Referenzschluessel 3", "Belegart"},
		{"140100", "Invoice", "-1.234,56", "05.06.2024", "05.07.2024", "June billing", "INV-1", "K3", "RV"},
		{"", "", "", "", "", "", "", "", ""},
		{"140100", "Payment", "not-a-number", "garbage", "", "SIXT payment", "", "", ""},
	}

	rows, err := DecodeLedgerRows(records)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank record skipped, got %d rows", len(rows))
	}
	if rows[0].Amount.String() != "-1234.56" {
		t.Fatalf("expected European amount -1234.56, got %s", rows[0].Amount)
	}
	if rows[0].PostingDate == nil || rows[0].PostingDate.Format("2006-01-02") != "2024-06-05" {
		t.Fatalf("unexpected posting date: %v", rows[0].PostingDate)
	}
	if rows[0].ReferenceKey3 != "K3" {
		t.Fatalf("unexpected reference key: %q", rows[0].ReferenceKey3)
	}
	if !rows[1].Amount.IsZero() {
		t.Fatalf("malformed amount must decode to zero, got %s", rows[1].Amount)
	}
	if rows[1].PostingDate != nil {
		t.Fatalf("malformed date must decode to nil")
	}
	if rows[0].BatchID == "" || rows[0].BatchID != rows[1].BatchID {
		t.Fatalf("rows of one upload must share a batch id")
	}
}

func TestDecodeLedgerRowsEmpty(t *testing.T) {
	if _, err := DecodeLedgerRows([][]string{{"Konto"}}); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestDecodeBillingCostRows(t *testing.T) {
	records := [][]string{
		{"Cost Center", "Booking Program", "Amount Local Currency", "Year Month", "Description"},
		{"KST100", "FRFIX", "1.500,00", "2024/06", "contractual"},
		{"KST100", "FRVAR", "250.75", "2024/06", "operational"},
	}

	rows, err := DecodeBillingCostRows(records)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Amount.String() != "1500" {
		t.Fatalf("expected amount 1500, got %s", rows[0].Amount)
	}
	if rows[1].Amount.String() != "250.75" {
		t.Fatalf("expected amount 250.75, got %s", rows[1].Amount)
	}
	if rows[0].CostCenter != "KST100" || rows[0].YearMonth != "2024/06" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}
