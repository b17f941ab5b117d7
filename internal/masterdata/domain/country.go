package masterdata

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Country represents a franchise country in masterdata. A country is
// identified by its ledger accounts (debitor/kreditor), its cost center
// and its facility id; the upload and ledger systems key the same country
// by different identifiers.
type Country struct {
	ID            string
	FIR           string
	Debitor1      string
	Kreditor      string
	KST           string
	ISO           string
	Name          string
	PartnerStatus string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks country invariants.
func (c Country) Validate() error {
	if c.ID == "" {
		return errors.New("country: empty id")
	}
	if c.Name == "" {
		return errors.New("country: empty name")
	}
	if c.Debitor1 == "" {
		return errors.New("country: empty debitor account")
	}
	if c.KST == "" {
		return errors.New("country: empty cost center")
	}
	return nil
}

// IsActive reports whether the partner status marks the country as an
// active franchise partner. The status is free text maintained by hand,
// so matching is by substring.
func (c Country) IsActive() bool {
	status := strings.ToLower(c.PartnerStatus)
	return strings.Contains(status, "aktiv") && !strings.Contains(status, "inaktiv")
}

// CountryRepository manages country persistence.
type CountryRepository interface {
	Get(ctx context.Context, id string) (*Country, error)
	GetByISO(ctx context.Context, iso string) (*Country, error)
	List(ctx context.Context) ([]Country, error)
	ReplaceAll(ctx context.Context, countries []Country) error
}
