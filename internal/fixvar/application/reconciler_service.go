package application

import (
	"context"
	"errors"
	"time"

	fixvar "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/domain"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
)

// CountryReader resolves countries from masterdata.
type CountryReader interface {
	Get(ctx context.Context, id string) (*masterdata.Country, error)
	List(ctx context.Context) ([]masterdata.Country, error)
}

// LedgerReader fetches imported ledger rows.
type LedgerReader interface {
	ListByAccount(ctx context.Context, konto string) ([]ledger.Row, error)
	ListAll(ctx context.Context) ([]ledger.Row, error)
}

// UploadReader fetches uploaded billing cost rows.
type UploadReader interface {
	ListByYearMonth(ctx context.Context, yearMonth string) ([]ledger.BillingCostRow, error)
}

// ReconcilerService compares the uploaded fix/variable classification
// against the ledger's own classification.
type ReconcilerService struct {
	countries CountryReader
	rows      LedgerReader
	uploads   UploadReader
	codes     fixvar.ProgramCodes
}

// NewReconcilerService constructs a service.
func NewReconcilerService(countries CountryReader, rows LedgerReader, uploads UploadReader, codes fixvar.ProgramCodes) (*ReconcilerService, error) {
	if countries == nil {
		return nil, errors.New("fixvar service: nil country reader")
	}
	if rows == nil {
		return nil, errors.New("fixvar service: nil ledger reader")
	}
	if uploads == nil {
		return nil, errors.New("fixvar service: nil upload reader")
	}
	if codes.Fix == "" || codes.Variable == "" {
		return nil, errors.New("fixvar service: program codes required")
	}
	return &ReconcilerService{countries: countries, rows: rows, uploads: uploads, codes: codes}, nil
}

// Report computes the fix/variable deviation report for one country and
// period.
func (s *ReconcilerService) Report(ctx context.Context, countryID, period string) (*fixvar.CountryReport, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveFixVarReport("country", result, time.Since(start))
	}()

	country, err := s.countries.Get(ctx, countryID)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	p, err := ledger.ParsePeriod(period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	ledgerRows, err := s.rows.ListByAccount(ctx, country.Debitor1)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	uploadRows, err := s.uploads.ListByYearMonth(ctx, p.YearMonthSlash())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	ledgerFix, ledgerVariable := fixvar.ClassifyLedger(ledgerRows, *country, p)
	uploadFix, uploadVariable := fixvar.ClassifyUpload(uploadRows, *country, p, s.codes)
	report := fixvar.BuildReport(*country, p, uploadFix, uploadVariable, ledgerFix, ledgerVariable)
	return &report, nil
}

// Overview computes deviations for every active country in one pass.
// All ledger and upload rows are pre-aggregated before the per-country
// join; countries whose four aggregates are all zero are omitted, and
// the remaining rows are ordered by descending absolute deviation.
func (s *ReconcilerService) Overview(ctx context.Context, period string) ([]fixvar.OverviewRow, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveFixVarReport("overview", result, time.Since(start))
	}()

	p, err := ledger.ParsePeriod(period)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	countries, err := s.countries.List(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	ledgerRows, err := s.rows.ListAll(ctx)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	uploadRows, err := s.uploads.ListByYearMonth(ctx, p.YearMonthSlash())
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}

	ledgerTotals := fixvar.AggregateLedger(ledgerRows, p)
	uploadTotals := fixvar.AggregateUpload(uploadRows, p, s.codes)

	var overview []fixvar.OverviewRow
	for _, country := range countries {
		if !country.IsActive() {
			continue
		}
		upload := uploadTotals[country.KST]
		ledgerSide := ledgerTotals[country.Debitor1]
		if upload.Fix.IsZero() && upload.Variable.IsZero() && ledgerSide.Fix.IsZero() && ledgerSide.Variable.IsZero() {
			continue
		}
		overview = append(overview, fixvar.OverviewRow{
			Country:           country,
			UploadFix:         upload.Fix,
			UploadVariable:    upload.Variable,
			LedgerFix:         ledgerSide.Fix,
			LedgerVariable:    ledgerSide.Variable,
			FixDeviation:      upload.Fix.Sub(ledgerSide.Fix),
			VariableDeviation: upload.Variable.Sub(ledgerSide.Variable),
		})
	}
	fixvar.SortOverview(overview)
	return overview, nil
}
