package application

import (
	"context"
	"errors"
	"time"

	gdsdcf "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/domain"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
)

// ReservationReader fetches reservation records.
type ReservationReader interface {
	ListByPeriod(ctx context.Context, period string) ([]gdsdcf.Reservation, error)
}

// ResultWriter persists validation results. The write for one run must
// be atomic as a unit.
type ResultWriter interface {
	SaveResults(ctx context.Context, runID string, results []gdsdcf.ValidationResult) error
}

// RunIDFactory mints run identifiers.
type RunIDFactory interface {
	NewRunID() string
}

// ValidationService runs the chargeability validation for a period's
// reservations and persists the outcome.
type ValidationService struct {
	reservations ReservationReader
	results      ResultWriter
	runIDs       RunIDFactory
	validator    *gdsdcf.Validator
}

// NewValidationService constructs a service.
func NewValidationService(reservations ReservationReader, results ResultWriter, runIDs RunIDFactory, validator *gdsdcf.Validator) (*ValidationService, error) {
	if reservations == nil {
		return nil, errors.New("validation service: nil reservation reader")
	}
	if results == nil {
		return nil, errors.New("validation service: nil result writer")
	}
	if runIDs == nil {
		return nil, errors.New("validation service: nil run id factory")
	}
	if validator == nil {
		return nil, errors.New("validation service: nil validator")
	}
	return &ValidationService{reservations: reservations, results: results, runIDs: runIDs, validator: validator}, nil
}

// Run validates every reservation of the period and stores the results.
// The returned slice has the same cardinality as the period's
// reservations; a failing reservation is a described outcome, never an
// error.
func (s *ValidationService) Run(ctx context.Context, period string) (string, []gdsdcf.ValidationResult, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveValidationRun(result, time.Since(start))
	}()

	if _, err := ledger.ParsePeriod(period); err != nil {
		result = metrics.ResultError
		return "", nil, err
	}
	reservations, err := s.reservations.ListByPeriod(ctx, period)
	if err != nil {
		result = metrics.ResultError
		return "", nil, err
	}

	outcomes := s.validator.ValidateAll(reservations)
	for _, outcome := range outcomes {
		metrics.IncReservationOutcome(outcome.IsChargeable)
	}

	runID := s.runIDs.NewRunID()
	if err := s.results.SaveResults(ctx, runID, outcomes); err != nil {
		result = metrics.ResultError
		return "", nil, err
	}
	return runID, outcomes, nil
}
