package gdsdcf

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Step labels in execution order.
const (
	StepReservationNumber = "reservation number"
	StepSourceChannel     = "source channel"
	StepPartner           = "partner"
	StepMandantCode       = "mandant code"
	StepStatus            = "status"
	StepInvoiceType       = "invoice type"
)

// Validator evaluates the chargeability rule chain for reservations.
type Validator struct {
	partners         []Partner
	channels         []string
	mandantCodes     map[string]struct{}
	eligibleStatuses []string
}

// NewValidator constructs a validator. Empty partner, channel or status
// configuration falls back to the built-in defaults; the franchise
// mandant-code allow-list is always caller-supplied.
func NewValidator(partners []Partner, channels []string, eligibleStatuses []string, mandantCodes []string) (*Validator, error) {
	if len(mandantCodes) == 0 {
		return nil, errors.New("gdsdcf: franchise mandant codes required")
	}
	if len(partners) == 0 {
		partners = DefaultPartners()
	}
	if len(channels) == 0 {
		channels = DefaultChannels()
	}
	if len(eligibleStatuses) == 0 {
		eligibleStatuses = DefaultEligibleStatuses()
	}
	codes := make(map[string]struct{}, len(mandantCodes))
	for _, code := range mandantCodes {
		codes[code] = struct{}{}
	}
	return &Validator{
		partners:         partners,
		channels:         channels,
		mandantCodes:     codes,
		eligibleStatuses: eligibleStatuses,
	}, nil
}

type stepFunc func(Reservation, *Partner) (passed bool, reason string, partner *Partner)

// Validate runs the six-step rule chain against one reservation.
// Evaluation stops at the first failing step; every evaluated step is
// recorded. Validation never fails as an error: every reservation yields
// a result.
func (v *Validator) Validate(res Reservation) ValidationResult {
	result := ValidationResult{
		Reservation:   res,
		CalculatedFee: decimal.Zero,
		Currency:      "EUR",
		Partner:       "N/A",
		Region:        "N/A",
	}

	steps := []struct {
		label string
		fn    stepFunc
	}{
		{StepReservationNumber, v.checkReservationNumber},
		{StepSourceChannel, v.checkSourceChannel},
		{StepPartner, v.checkPartner},
		{StepMandantCode, v.checkMandantCode},
		{StepStatus, v.checkStatus},
		{StepInvoiceType, v.checkInvoiceType},
	}

	var partner *Partner
	for _, step := range steps {
		passed, reason, matched := step.fn(res, partner)
		if matched != nil {
			partner = matched
		}
		result.Steps = append(result.Steps, Step{Step: step.label, Passed: passed, Reason: reason})
		if !passed {
			return result
		}
	}

	region := ResolveRegion(res.POS)
	fee := partner.FeeFor(region, res.DFR)
	result.IsChargeable = true
	result.CalculatedFee = fee.Amount
	result.Currency = fee.Currency
	result.Partner = partner.Name
	result.Region = region
	return result
}

func (v *Validator) checkReservationNumber(res Reservation, _ *Partner) (bool, string, *Partner) {
	if strings.TrimSpace(res.ReservationNumber) == "" {
		return false, "reservation number missing", nil
	}
	return true, "reservation number present", nil
}

func (v *Validator) checkSourceChannel(res Reservation, _ *Partner) (bool, string, *Partner) {
	for _, channel := range v.channels {
		if channel != "" && strings.Contains(res.Source, channel) {
			return true, "source channel " + channel, nil
		}
	}
	return false, "source channel not recognized: " + res.Source, nil
}

func (v *Validator) checkPartner(res Reservation, _ *Partner) (bool, string, *Partner) {
	for i := range v.partners {
		if v.partners[i].Matches(res.Source) {
			return true, "partner " + v.partners[i].Name, &v.partners[i]
		}
	}
	return false, "no partner configured for source: " + res.Source, nil
}

func (v *Validator) checkMandantCode(res Reservation, _ *Partner) (bool, string, *Partner) {
	if res.MandantCode == "" {
		return false, "mandant code missing", nil
	}
	if _, ok := v.mandantCodes[res.MandantCode]; !ok {
		return false, "mandant code not in franchise list: " + res.MandantCode, nil
	}
	return true, "franchise mandant code " + res.MandantCode, nil
}

// checkStatus preserves the legacy truth table verbatim: the status
// passes when it carries an eligible label, or when it contains
// "cancelled via original".
// TODO: confirm with product whether the cancelled-via-original clause
// is meant to be negated; until then the legacy behavior stands.
func (v *Validator) checkStatus(res Reservation, _ *Partner) (bool, string, *Partner) {
	status := strings.ToLower(res.Status)
	for _, eligible := range v.eligibleStatuses {
		if eligible != "" && strings.Contains(status, strings.ToLower(eligible)) {
			return true, "status eligible: " + res.Status, nil
		}
	}
	if strings.Contains(status, "cancelled via original") {
		return true, "status eligible: " + res.Status, nil
	}
	return false, "status not eligible: " + res.Status, nil
}

func (v *Validator) checkInvoiceType(res Reservation, _ *Partner) (bool, string, *Partner) {
	if !strings.Contains(strings.ToLower(res.InvoiceType), "main") {
		return false, "invoice type not main: " + res.InvoiceType, nil
	}
	if res.SerialNumber != 0 {
		return false, "not first invoice in series", nil
	}
	return true, "main invoice, first in series", nil
}

// ValidateAll validates a batch; the result count always equals the
// reservation count.
func (v *Validator) ValidateAll(reservations []Reservation) []ValidationResult {
	results := make([]ValidationResult, 0, len(reservations))
	for _, res := range reservations {
		results = append(results, v.Validate(res))
	}
	return results
}
