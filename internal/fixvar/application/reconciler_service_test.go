package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	fixvar "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/domain"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
)

type fakeCountries struct {
	countries []masterdata.Country
}

func (f *fakeCountries) Get(_ context.Context, id string) (*masterdata.Country, error) {
	for _, c := range f.countries {
		if c.ID == id {
			country := c
			return &country, nil
		}
	}
	return nil, masterdata.ErrCountryNotFound
}

func (f *fakeCountries) List(_ context.Context) ([]masterdata.Country, error) {
	return f.countries, nil
}

type fakeLedger struct {
	rows []ledger.Row
}

func (f *fakeLedger) ListByAccount(_ context.Context, konto string) ([]ledger.Row, error) {
	var out []ledger.Row
	for _, row := range f.rows {
		if row.Konto == konto {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListAll(_ context.Context) ([]ledger.Row, error) {
	return f.rows, nil
}

type fakeUploads struct {
	rows []ledger.BillingCostRow
}

func (f *fakeUploads) ListByYearMonth(_ context.Context, yearMonth string) ([]ledger.BillingCostRow, error) {
	var out []ledger.BillingCostRow
	for _, row := range f.rows {
		if row.YearMonth == yearMonth {
			out = append(out, row)
		}
	}
	return out, nil
}

func num(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %s: %v", value, err)
	}
	return parsed
}

func posted(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return &parsed
}

func testService(t *testing.T, countries []masterdata.Country, rows []ledger.Row, uploads []ledger.BillingCostRow) *ReconcilerService {
	t.Helper()
	service, err := NewReconcilerService(
		&fakeCountries{countries: countries},
		&fakeLedger{rows: rows},
		&fakeUploads{rows: uploads},
		fixvar.ProgramCodes{Fix: "FRFIX", Variable: "FRVAR"},
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func TestReportDeviations(t *testing.T) {
	country := masterdata.Country{ID: "country-de", Debitor1: "140100", KST: "KST100", Name: "Germany", PartnerStatus: "aktiv"}
	rows := []ledger.Row{
		{Konto: "140100", Type: ledger.TypeInvoice, Text: "contractual costs billing", Amount: num(t, "-400.00"), PostingDate: posted(t, "2024-06-10")},
		{Konto: "140100", Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: num(t, "-120.00"), PostingDate: posted(t, "2024-06-11")},
	}
	uploads := []ledger.BillingCostRow{
		{CostCenter: "KST100", YearMonth: "2024/06", BookingProgram: "FRFIX", Amount: num(t, "410.00")},
		{CostCenter: "KST100", YearMonth: "2024/06", BookingProgram: "FRVAR", Amount: num(t, "120.00")},
	}
	service := testService(t, []masterdata.Country{country}, rows, uploads)

	report, err := service.Report(context.Background(), "country-de", "202406")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.FixDeviation.String() != "10" {
		t.Fatalf("expected fix deviation 10, got %s", report.FixDeviation)
	}
	if !report.VariableDeviation.IsZero() {
		t.Fatalf("expected zero variable deviation, got %s", report.VariableDeviation)
	}
}

func TestReportUnknownCountry(t *testing.T) {
	service := testService(t, nil, nil, nil)
	if _, err := service.Report(context.Background(), "missing", "202406"); !errors.Is(err, masterdata.ErrCountryNotFound) {
		t.Fatalf("expected ErrCountryNotFound, got %v", err)
	}
}

func TestReportInvalidPeriod(t *testing.T) {
	country := masterdata.Country{ID: "country-de", Debitor1: "140100", KST: "KST100"}
	service := testService(t, []masterdata.Country{country}, nil, nil)
	if _, err := service.Report(context.Background(), "country-de", "2024-06"); !errors.Is(err, ledger.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestOverviewFiltersAndSorts(t *testing.T) {
	countries := []masterdata.Country{
		{ID: "country-de", Debitor1: "140100", KST: "KST100", Name: "Germany", PartnerStatus: "aktiv"},
		{ID: "country-fr", Debitor1: "140200", KST: "KST200", Name: "France", PartnerStatus: "aktiv"},
		{ID: "country-it", Debitor1: "140300", KST: "KST300", Name: "Italy", PartnerStatus: "inaktiv"},
		{ID: "country-es", Debitor1: "140400", KST: "KST400", Name: "Spain", PartnerStatus: "aktiv"},
	}
	rows := []ledger.Row{
		{Konto: "140100", Type: ledger.TypeInvoice, Text: "contractual costs billing", Amount: num(t, "-100.00"), PostingDate: posted(t, "2024-06-01")},
		{Konto: "140200", Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: num(t, "-500.00"), PostingDate: posted(t, "2024-06-02")},
		// would make Italy non-zero, but Italy is inactive
		{Konto: "140300", Type: ledger.TypeInvoice, Text: "operational costs billing", Amount: num(t, "-900.00"), PostingDate: posted(t, "2024-06-03")},
	}
	uploads := []ledger.BillingCostRow{
		{CostCenter: "KST100", YearMonth: "2024/06", BookingProgram: "FRFIX", Amount: num(t, "110.00")},
		{CostCenter: "KST200", YearMonth: "2024/06", BookingProgram: "FRVAR", Amount: num(t, "400.00")},
	}
	service := testService(t, countries, rows, uploads)

	overview, err := service.Overview(context.Background(), "202406")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview) != 2 {
		t.Fatalf("expected 2 overview rows, got %d", len(overview))
	}
	// France deviates by 100, Germany by 10; Spain has no activity at all
	if overview[0].Country.ID != "country-fr" || overview[1].Country.ID != "country-de" {
		t.Fatalf("unexpected order: %s, %s", overview[0].Country.ID, overview[1].Country.ID)
	}
	for _, row := range overview {
		if row.Country.ID == "country-es" {
			t.Fatalf("all-zero country must be omitted")
		}
		if row.Country.ID == "country-it" {
			t.Fatalf("inactive country must be omitted")
		}
	}
}
