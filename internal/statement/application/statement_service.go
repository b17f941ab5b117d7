package application

import (
	"context"
	"errors"
	"time"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
)

// CountryReader resolves countries from masterdata.
type CountryReader interface {
	Get(ctx context.Context, id string) (*masterdata.Country, error)
}

// LedgerReader fetches ledger rows for an account across all time.
type LedgerReader interface {
	ListByAccount(ctx context.Context, konto string) ([]ledger.Row, error)
}

// StatementService computes monthly country statements from raw ledger
// rows. All derived data is recomputed on demand; nothing is persisted.
type StatementService struct {
	countries CountryReader
	rows      LedgerReader
}

// NewStatementService constructs a service.
func NewStatementService(countries CountryReader, rows LedgerReader) (*StatementService, error) {
	if countries == nil {
		return nil, errors.New("statement service: nil country reader")
	}
	if rows == nil {
		return nil, errors.New("statement service: nil ledger reader")
	}
	return &StatementService{countries: countries, rows: rows}, nil
}

// Generate computes the statement for one country and period. The
// release date and payment term determine the due-until date.
func (s *StatementService) Generate(ctx context.Context, countryID, period string, releaseDate time.Time, paymentTermDays int) (*statement.Statement, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementGenerate(result, time.Since(start))
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
	rows, err := s.rows.ListByAccount(ctx, country.Debitor1)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	return Compute(*country, p, releaseDate, paymentTermDays, rows), nil
}

// Compute derives a statement from already-fetched rows. Pure and
// deterministic: identical rows yield an identical statement.
func Compute(country masterdata.Country, period ledger.Period, releaseDate time.Time, paymentTermDays int, rows []ledger.Row) *statement.Statement {
	current, rest := statement.SplitPeriod(rows, period)

	clearing := statement.BuildClearingLines(current)
	billing := statement.BuildBillingLines(current)
	clearingSubtotal := statement.Subtotal(clearing)
	billingSubtotal := statement.Subtotal(billing)
	totalDue := clearingSubtotal.Add(billingSubtotal)

	overdue, due := statement.PreviousBalances(rest, period)
	bySixt, byPartner := statement.PaymentSplit(current)

	dueUntil := releaseDate.AddDate(0, 0, paymentTermDays)
	account := statement.AccountStatement{
		OverdueBalance:         overdue,
		DueBalance:             due,
		DueUntilDate:           dueUntil,
		PaymentBySixt:          bySixt,
		PaymentByPartner:       byPartner,
		TotalInterfacingAmount: totalDue,
		BalanceOpenItems:       overdue.Add(due).Add(bySixt).Add(byPartner).Add(totalDue),
	}

	return &statement.Statement{
		Country:             country,
		Period:              period.String(),
		ReleaseDate:         releaseDate,
		DueUntilDate:        dueUntil,
		ClearingLines:       clearing,
		ClearingSubtotal:    clearingSubtotal,
		BillingLines:        billing,
		BillingSubtotal:     billingSubtotal,
		TotalInterfacingDue: totalDue,
		Account:             account,
	}
}
