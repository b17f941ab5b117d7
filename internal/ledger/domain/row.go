package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as they appear in the ledger export. The type column
// is free text; these are the literal values the export emits.
const (
	TypeClearing   = "Clearing"
	TypeInvoice    = "Invoice"
	TypeCreditNote = "Credit Note"
	TypePayment    = "Payment"
)

// Row is one ledger booking as imported from the ledger export. Amounts
// carry the ledger sign convention; the statement engine owns the
// inversion to statement convention. Rows are immutable once imported.
type Row struct {
	ID            string
	Konto         string
	Type          string
	Amount        decimal.Decimal
	PostingDate   *time.Time
	DocumentDate  *time.Time
	NetDueDate    *time.Time
	Text          string
	Reference     string
	ReferenceKey3 string
	DocumentType  string
	BatchID       string
	CreatedAt     time.Time
}

// BillingCostRow is one uploaded billing-system row. The amount already
// carries the statement sign convention and is never inverted. The
// booking program is raw free text and must be normalized before any
// comparison.
type BillingCostRow struct {
	ID             string
	CostCenter     string
	BookingProgram string
	Amount         decimal.Decimal
	YearMonth      string
	Description    string
	BatchID        string
	CreatedAt      time.Time
}
