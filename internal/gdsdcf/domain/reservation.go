package gdsdcf

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is one third-party distribution-channel reservation
// record. Immutable input to validation.
type Reservation struct {
	ID                string
	ReservationNumber string
	Source            string
	POS               string
	MandantCode       string
	Status            string
	InvoiceType       string
	SerialNumber      int
	VoucherNumber     string
	DFR               string
	Period            string
	CreatedAt         time.Time
}

// Step is one evaluated validation step.
type Step struct {
	Step   string
	Passed bool
	Reason string
}

// ValidationResult is the outcome for one reservation. The step list
// always holds every evaluated step in execution order, ending with the
// first failing step when there is one.
type ValidationResult struct {
	Reservation   Reservation
	IsChargeable  bool
	CalculatedFee decimal.Decimal
	Currency      string
	Partner       string
	Region        Region
	Steps         []Step
}
