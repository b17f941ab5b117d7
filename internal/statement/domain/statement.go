package statement

import (
	"time"

	"github.com/shopspring/decimal"

	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
)

// Line is one statement line derived from a ledger row. Amounts carry
// the statement sign convention, the mirror of the ledger convention.
type Line struct {
	Type         string
	Reference    string
	DocumentType string
	Date         *time.Time
	Description  string
	Amount       decimal.Decimal
}

// AccountStatement rolls prior-period balances, current payments and the
// current due amount into a single open-items balance.
type AccountStatement struct {
	OverdueBalance         decimal.Decimal
	DueBalance             decimal.Decimal
	DueUntilDate           time.Time
	PaymentBySixt          decimal.Decimal
	PaymentByPartner       decimal.Decimal
	TotalInterfacingAmount decimal.Decimal
	BalanceOpenItems       decimal.Decimal
}

// Statement is the monthly country statement handed to rendering
// collaborators.
type Statement struct {
	Country             masterdata.Country
	Period              string
	ReleaseDate         time.Time
	DueUntilDate        time.Time
	ClearingLines       []Line
	ClearingSubtotal    decimal.Decimal
	BillingLines        []Line
	BillingSubtotal     decimal.Decimal
	TotalInterfacingDue decimal.Decimal
	Account             AccountStatement
}
