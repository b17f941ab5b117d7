package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

// BillingUploadRepository persists uploaded billing cost rows.
type BillingUploadRepository struct {
	db *sql.DB
}

// NewBillingUploadRepository constructs a repository.
func NewBillingUploadRepository(db *sql.DB) *BillingUploadRepository {
	return &BillingUploadRepository{db: db}
}

// ListByYearMonth returns all upload rows for a YYYY/MM year-month.
func (r *BillingUploadRepository) ListByYearMonth(ctx context.Context, yearMonth string) ([]ledger.BillingCostRow, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("billing upload repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, cost_center, booking_program, amount, year_month, description, batch_id, created_at
FROM billing_cost_rows
WHERE year_month = $1
ORDER BY id`, yearMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRows(rows)
}

// InsertBatch inserts all rows of one upload in a single transaction.
func (r *BillingUploadRepository) InsertBatch(ctx context.Context, batch []ledger.BillingCostRow) error {
	if r == nil || r.db == nil {
		return errors.New("billing upload repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, row := range batch {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO billing_cost_rows (
	id, cost_center, booking_program, amount, year_month, description, batch_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			row.ID, row.CostCenter, row.BookingProgram, row.Amount.String(), row.YearMonth,
			row.Description, row.BatchID, row.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func scanBillingRows(rows *sql.Rows) ([]ledger.BillingCostRow, error) {
	var result []ledger.BillingCostRow
	for rows.Next() {
		var (
			row    ledger.BillingCostRow
			amount string
		)
		err := rows.Scan(&row.ID, &row.CostCenter, &row.BookingProgram, &amount, &row.YearMonth,
			&row.Description, &row.BatchID, &row.CreatedAt)
		if err != nil {
			return nil, err
		}
		row.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
