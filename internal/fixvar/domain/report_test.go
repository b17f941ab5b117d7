package fixvar

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
)

func testCountry() masterdata.Country {
	return masterdata.Country{
		ID:       "country-fr",
		Debitor1: "140200",
		KST:      "KST200",
		ISO:      "FR",
		Name:     "France",
	}
}

func mustPeriod(t *testing.T, value string) ledger.Period {
	t.Helper()
	period, err := ledger.ParsePeriod(value)
	if err != nil {
		t.Fatalf("parse period %s: %v", value, err)
	}
	return period
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return &parsed
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %s: %v", value, err)
	}
	return parsed
}

func TestNormalizeProgram(t *testing.T) {
	cases := map[string]string{
		"frfix":     "FRFIX",
		" FR FIX ":  "FRFIX",
		"Fr\tVar":   "FRVAR",
		"FRVAR":     "FRVAR",
		"fr  var  ": "FRVAR",
	}
	for input, want := range cases {
		if got := NormalizeProgram(input); got != want {
			t.Fatalf("NormalizeProgram(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestClassifyLedger(t *testing.T) {
	country := testCountry()
	period := mustPeriod(t, "202406")
	rows := []ledger.Row{
		{Konto: country.Debitor1, Type: ledger.TypeInvoice, Text: "Operational Costs Billing June", Amount: dec(t, "-150.00"), PostingDate: date(t, "2024-06-05")},
		{Konto: country.Debitor1, Type: ledger.TypeCreditNote, Text: "operational costs billing correction", Amount: dec(t, "30.00"), PostingDate: date(t, "2024-06-08")},
		{Konto: country.Debitor1, Type: ledger.TypeInvoice, Text: "Contractual Costs Billing June", Amount: dec(t, "-400.00"), PostingDate: date(t, "2024-06-10")},
		{Konto: country.Debitor1, Type: ledger.TypeInvoice, Text: "unrelated invoice", Amount: dec(t, "-999.00"), PostingDate: date(t, "2024-06-11")},
		{Konto: country.Debitor1, Type: ledger.TypePayment, Text: "operational costs billing", Amount: dec(t, "-1.00"), PostingDate: date(t, "2024-06-12")},
		{Konto: "other", Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: dec(t, "-2.00"), PostingDate: date(t, "2024-06-13")},
		{Konto: country.Debitor1, Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: dec(t, "-3.00"), PostingDate: date(t, "2024-05-31")},
	}

	fix, variable := ClassifyLedger(rows, country, period)

	if len(variable.Lines) != 2 {
		t.Fatalf("expected 2 variable lines, got %d", len(variable.Lines))
	}
	if variable.Lines[0].Amount.String() != "150" || variable.Lines[1].Amount.String() != "-30" {
		t.Fatalf("variable lines not inverted and sorted descending: %s, %s", variable.Lines[0].Amount, variable.Lines[1].Amount)
	}
	if variable.Subtotal.String() != "120" {
		t.Fatalf("expected variable subtotal 120, got %s", variable.Subtotal)
	}
	if len(fix.Lines) != 1 || fix.Subtotal.String() != "400" {
		t.Fatalf("unexpected fix section: %d lines, subtotal %s", len(fix.Lines), fix.Subtotal)
	}
}

func TestClassifyUpload(t *testing.T) {
	country := testCountry()
	period := mustPeriod(t, "202406")
	codes := ProgramCodes{Fix: "FRFIX", Variable: "FRVAR"}
	rows := []ledger.BillingCostRow{
		{CostCenter: country.KST, YearMonth: "2024/06", BookingProgram: "fr fix", Amount: dec(t, "410.00")},
		{CostCenter: country.KST, YearMonth: "2024/06", BookingProgram: "FRVAR", Amount: dec(t, "90.00")},
		{CostCenter: country.KST, YearMonth: "2024/06", BookingProgram: "frvar", Amount: dec(t, "-20.00")},
		{CostCenter: country.KST, YearMonth: "2024/06", BookingProgram: "OTHER", Amount: dec(t, "5.00")},
		{CostCenter: country.KST, YearMonth: "2024/05", BookingProgram: "FRVAR", Amount: dec(t, "7.00")},
		{CostCenter: "KST999", YearMonth: "2024/06", BookingProgram: "FRVAR", Amount: dec(t, "8.00")},
	}

	fix, variable := ClassifyUpload(rows, country, period, codes)

	if len(variable.Lines) != 2 {
		t.Fatalf("expected 2 variable lines, got %d", len(variable.Lines))
	}
	if variable.Lines[0].Amount.String() != "-20" || variable.Lines[1].Amount.String() != "90" {
		t.Fatalf("upload lines not sorted ascending: %s, %s", variable.Lines[0].Amount, variable.Lines[1].Amount)
	}
	if variable.Subtotal.String() != "70" {
		t.Fatalf("expected variable subtotal 70, got %s", variable.Subtotal)
	}
	if fix.Subtotal.String() != "410" {
		t.Fatalf("expected fix subtotal 410, got %s", fix.Subtotal)
	}
}

func TestBuildReportDeviation(t *testing.T) {
	country := testCountry()
	period := mustPeriod(t, "202406")
	uploadFix := Section{Subtotal: dec(t, "410.00")}
	uploadVariable := Section{Subtotal: dec(t, "70.00")}
	ledgerFix := Section{Subtotal: dec(t, "400.00")}
	ledgerVariable := Section{Subtotal: dec(t, "120.00")}

	report := BuildReport(country, period, uploadFix, uploadVariable, ledgerFix, ledgerVariable)

	if report.FixDeviation.String() != "10" {
		t.Fatalf("expected fix deviation 10, got %s", report.FixDeviation)
	}
	if report.VariableDeviation.String() != "-50" {
		t.Fatalf("expected variable deviation -50, got %s", report.VariableDeviation)
	}
	if report.Period != "202406" {
		t.Fatalf("expected period 202406, got %s", report.Period)
	}
}

func TestSortOverview(t *testing.T) {
	rows := []OverviewRow{
		{Country: masterdata.Country{ID: "small"}, FixDeviation: dec(t, "1.00"), VariableDeviation: dec(t, "-2.00")},
		{Country: masterdata.Country{ID: "big"}, FixDeviation: dec(t, "-100.00"), VariableDeviation: dec(t, "50.00")},
		{Country: masterdata.Country{ID: "mid"}, FixDeviation: dec(t, "10.00"), VariableDeviation: dec(t, "10.00")},
	}

	SortOverview(rows)

	order := []string{"big", "mid", "small"}
	for i, id := range order {
		if rows[i].Country.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, rows[i].Country.ID)
		}
	}
}

func TestAggregateLedgerAndUpload(t *testing.T) {
	period := mustPeriod(t, "202406")
	ledgerRows := []ledger.Row{
		{Konto: "140200", Type: ledger.TypeInvoice, Text: "contractual costs billing", Amount: dec(t, "-100.00"), PostingDate: date(t, "2024-06-01")},
		{Konto: "140200", Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: dec(t, "-40.00"), PostingDate: date(t, "2024-06-02")},
		{Konto: "140300", Type: ledger.TypeCreditNote, Text: "operational costs billing", Amount: dec(t, "15.00"), PostingDate: date(t, "2024-06-03")},
	}
	uploadRows := []ledger.BillingCostRow{
		{CostCenter: "KST200", YearMonth: "2024/06", BookingProgram: "FRFIX", Amount: dec(t, "100.00")},
		{CostCenter: "KST200", YearMonth: "2024/06", BookingProgram: "FRVAR", Amount: dec(t, "45.00")},
	}

	ledgerTotals := AggregateLedger(ledgerRows, period)
	if ledgerTotals["140200"].Fix.String() != "100" || ledgerTotals["140200"].Variable.String() != "40" {
		t.Fatalf("unexpected ledger totals for 140200: %+v", ledgerTotals["140200"])
	}
	if ledgerTotals["140300"].Variable.String() != "-15" {
		t.Fatalf("unexpected ledger totals for 140300: %+v", ledgerTotals["140300"])
	}

	uploadTotals := AggregateUpload(uploadRows, period, ProgramCodes{Fix: "FRFIX", Variable: "FRVAR"})
	if uploadTotals["KST200"].Fix.String() != "100" || uploadTotals["KST200"].Variable.String() != "45" {
		t.Fatalf("unexpected upload totals: %+v", uploadTotals["KST200"])
	}
}
