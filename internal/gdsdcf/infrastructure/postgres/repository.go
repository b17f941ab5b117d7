package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	gdsdcf "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/domain"
)

// Repository persists reservations and validation results.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// NewRunID mints a validation run id.
func (r *Repository) NewRunID() string {
	return "run-" + uuid.New().String()
}

// ListByPeriod returns reservations imported for a period.
func (r *Repository) ListByPeriod(ctx context.Context, period string) ([]gdsdcf.Reservation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("gdsdcf repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, reservation_number, source, pos, mandant_code, status, invoice_type,
	serial_number, voucher_number, dfr, period, created_at
FROM gdsdcf_reservations
WHERE period = $1
ORDER BY reservation_number, id`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []gdsdcf.Reservation
	for rows.Next() {
		var res gdsdcf.Reservation
		err := rows.Scan(&res.ID, &res.ReservationNumber, &res.Source, &res.POS, &res.MandantCode,
			&res.Status, &res.InvoiceType, &res.SerialNumber, &res.VoucherNumber, &res.DFR, &res.Period, &res.CreatedAt)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// InsertReservations inserts one import batch of reservations in a
// single transaction.
func (r *Repository) InsertReservations(ctx context.Context, reservations []gdsdcf.Reservation) error {
	if r == nil || r.db == nil {
		return errors.New("gdsdcf repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, res := range reservations {
		if res.CreatedAt.IsZero() {
			res.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO gdsdcf_reservations (
	id, reservation_number, source, pos, mandant_code, status, invoice_type,
	serial_number, voucher_number, dfr, period, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			res.ID, res.ReservationNumber, res.Source, res.POS, res.MandantCode, res.Status, res.InvoiceType,
			res.SerialNumber, res.VoucherNumber, res.DFR, res.Period, res.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveResults writes all results of one validation run atomically.
func (r *Repository) SaveResults(ctx context.Context, runID string, results []gdsdcf.ValidationResult) error {
	if r == nil || r.db == nil {
		return errors.New("gdsdcf repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, result := range results {
		steps, err := json.Marshal(result.Steps)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO gdsdcf_validation_results (
	run_id, reservation_id, is_chargeable, calculated_fee, currency, partner, region, steps, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			runID, result.Reservation.ID, result.IsChargeable, result.CalculatedFee.String(),
			result.Currency, result.Partner, string(result.Region), steps, now)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
