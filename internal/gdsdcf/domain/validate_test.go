package gdsdcf

import (
	"testing"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	validator, err := NewValidator(nil, nil, nil, []string{"9001", "9002"})
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return validator
}

func chargeableReservation() Reservation {
	return Reservation{
		ID:                "res-1",
		ReservationNumber: "987654321",
		Source:            "GA",
		POS:               "DE",
		MandantCode:       "9001",
		Status:            "Invoice",
		InvoiceType:       "Main Invoice",
		SerialNumber:      0,
		Period:            "202406",
	}
}

func TestValidateChargeableAmadeusEMEA(t *testing.T) {
	validator := newTestValidator(t)

	result := validator.Validate(chargeableReservation())

	if !result.IsChargeable {
		t.Fatalf("expected chargeable, steps: %+v", result.Steps)
	}
	if result.Partner != "Amadeus" {
		t.Fatalf("expected partner Amadeus, got %s", result.Partner)
	}
	if result.Region != RegionEMEA {
		t.Fatalf("expected region EMEA, got %s", result.Region)
	}
	if result.CalculatedFee.String() != "6.55" || result.Currency != "EUR" {
		t.Fatalf("expected fee 6.55 EUR, got %s %s", result.CalculatedFee, result.Currency)
	}
	if len(result.Steps) != 6 {
		t.Fatalf("expected 6 evaluated steps, got %d", len(result.Steps))
	}
	for _, step := range result.Steps {
		if !step.Passed {
			t.Fatalf("step %q unexpectedly failed: %s", step.Step, step.Reason)
		}
	}
}

func TestValidateMissingReservationNumber(t *testing.T) {
	validator := newTestValidator(t)
	res := chargeableReservation()
	res.ReservationNumber = "   "

	result := validator.Validate(res)

	if result.IsChargeable {
		t.Fatalf("expected not chargeable")
	}
	if len(result.Steps) != 1 {
		t.Fatalf("expected short-circuit after first step, got %d steps", len(result.Steps))
	}
	if result.Steps[0].Step != StepReservationNumber || result.Steps[0].Passed {
		t.Fatalf("unexpected first step: %+v", result.Steps[0])
	}
	if !result.CalculatedFee.IsZero() || result.Currency != "EUR" || result.Partner != "N/A" || string(result.Region) != "N/A" {
		t.Fatalf("failure result must carry fee 0 EUR and N/A partner/region: %+v", result)
	}
}

func TestValidateStopsAtFirstFailingStep(t *testing.T) {
	validator := newTestValidator(t)

	cases := []struct {
		name     string
		mutate   func(*Reservation)
		failStep string
		steps    int
	}{
		{"unknown source", func(r *Reservation) { r.Source = "XX" }, StepSourceChannel, 2},
		{"mandant not franchise", func(r *Reservation) { r.MandantCode = "1234" }, StepMandantCode, 4},
		{"status not eligible", func(r *Reservation) { r.Status = "cancelled" }, StepStatus, 5},
		{"sub invoice", func(r *Reservation) { r.InvoiceType = "Sub Invoice" }, StepInvoiceType, 6},
		{"later invoice in series", func(r *Reservation) { r.SerialNumber = 2 }, StepInvoiceType, 6},
	}
	for _, tc := range cases {
		res := chargeableReservation()
		tc.mutate(&res)
		result := validator.Validate(res)
		if result.IsChargeable {
			t.Fatalf("%s: expected not chargeable", tc.name)
		}
		if len(result.Steps) != tc.steps {
			t.Fatalf("%s: expected %d steps, got %d", tc.name, tc.steps, len(result.Steps))
		}
		last := result.Steps[len(result.Steps)-1]
		if last.Step != tc.failStep || last.Passed {
			t.Fatalf("%s: unexpected failing step %+v", tc.name, last)
		}
	}
}

func TestValidateCancelledViaOriginalIsEligible(t *testing.T) {
	validator := newTestValidator(t)
	res := chargeableReservation()
	res.Status = "Cancelled via original reservation"

	result := validator.Validate(res)
	if !result.IsChargeable {
		t.Fatalf("expected chargeable, steps: %+v", result.Steps)
	}
}

func TestValidateDFROverride(t *testing.T) {
	validator := newTestValidator(t)
	res := chargeableReservation()
	res.DFR = "10355"

	result := validator.Validate(res)
	if result.CalculatedFee.String() != "5.29" {
		t.Fatalf("expected DFR override fee 5.29, got %s", result.CalculatedFee)
	}
}

func TestValidateDFROverrideBeatsRegionEverywhere(t *testing.T) {
	validator := newTestValidator(t)
	res := chargeableReservation()
	res.Source = "Meili"
	res.DFR = "10897"
	res.POS = "US"

	result := validator.Validate(res)
	if result.Partner != "Meili" {
		t.Fatalf("expected partner Meili, got %s", result.Partner)
	}
	if result.Region != RegionAmericas {
		t.Fatalf("expected region Americas, got %s", result.Region)
	}
	if result.CalculatedFee.String() != "2.75" {
		t.Fatalf("expected DFR override fee 2.75, got %s", result.CalculatedFee)
	}
}

func TestResolveRegion(t *testing.T) {
	cases := map[string]Region{
		"DE": RegionEMEA,
		"fr": RegionEMEA,
		"US": RegionAmericas,
		"BR": RegionAmericas,
		"JP": RegionOther,
		"":   RegionOther,
	}
	for pos, want := range cases {
		if got := ResolveRegion(pos); got != want {
			t.Fatalf("ResolveRegion(%q) = %s, want %s", pos, got, want)
		}
	}
}

func TestValidateAllKeepsCardinality(t *testing.T) {
	validator := newTestValidator(t)
	good := chargeableReservation()
	bad := chargeableReservation()
	bad.ReservationNumber = ""

	results := validator.ValidateAll([]Reservation{good, bad, good})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].IsChargeable || results[1].IsChargeable || !results[2].IsChargeable {
		t.Fatalf("unexpected outcomes: %v %v %v", results[0].IsChargeable, results[1].IsChargeable, results[2].IsChargeable)
	}
}

func TestNewValidatorRequiresMandantCodes(t *testing.T) {
	if _, err := NewValidator(nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty mandant code list")
	}
}
