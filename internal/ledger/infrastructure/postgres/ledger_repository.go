package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

// LedgerRepository persists imported ledger rows.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository constructs a repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ListByAccount returns all rows for a ledger account across all time,
// ordered by posting date.
func (r *LedgerRepository) ListByAccount(ctx context.Context, konto string) ([]ledger.Row, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, konto, type, amount, posting_date, document_date, net_due_date,
	text, reference, reference_key3, document_type, batch_id, created_at
FROM ledger_rows
WHERE konto = $1
ORDER BY posting_date NULLS LAST, id`, konto)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListAll returns every imported ledger row. Used by the fix/variable
// overview, which aggregates across all accounts in one pass.
func (r *LedgerRepository) ListAll(ctx context.Context) ([]ledger.Row, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, konto, type, amount, posting_date, document_date, net_due_date,
	text, reference, reference_key3, document_type, batch_id, created_at
FROM ledger_rows
ORDER BY posting_date NULLS LAST, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// InsertBatch inserts all rows of one import batch in a single
// transaction; either every row lands or none do.
func (r *LedgerRepository) InsertBatch(ctx context.Context, batch []ledger.Row) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
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
INSERT INTO ledger_rows (
	id, konto, type, amount, posting_date, document_date, net_due_date,
	text, reference, reference_key3, document_type, batch_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			row.ID, row.Konto, row.Type, row.Amount.String(), row.PostingDate, row.DocumentDate, row.NetDueDate,
			row.Text, row.Reference, row.ReferenceKey3, row.DocumentType, row.BatchID, row.CreatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func scanRows(rows *sql.Rows) ([]ledger.Row, error) {
	var result []ledger.Row
	for rows.Next() {
		var (
			row    ledger.Row
			amount string
		)
		err := rows.Scan(&row.ID, &row.Konto, &row.Type, &amount, &row.PostingDate, &row.DocumentDate, &row.NetDueDate,
			&row.Text, &row.Reference, &row.ReferenceKey3, &row.DocumentType, &row.BatchID, &row.CreatedAt)
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
