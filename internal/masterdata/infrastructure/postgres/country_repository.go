package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
)

// CountryRepository persists franchise countries.
type CountryRepository struct {
	db *sql.DB
}

// NewCountryRepository constructs a repository.
func NewCountryRepository(db *sql.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// Get returns a country by id, or ErrCountryNotFound.
func (r *CountryRepository) Get(ctx context.Context, id string) (*masterdata.Country, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("country repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, fir, debitor1, kreditor, kst, iso, name, partner_status, created_at, updated_at
FROM countries
WHERE id = $1`, id)
	return scanCountry(row)
}

// GetByISO returns a country by ISO code, or ErrCountryNotFound.
func (r *CountryRepository) GetByISO(ctx context.Context, iso string) (*masterdata.Country, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("country repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, fir, debitor1, kreditor, kst, iso, name, partner_status, created_at, updated_at
FROM countries
WHERE iso = $1`, iso)
	return scanCountry(row)
}

// List returns all countries ordered by name.
func (r *CountryRepository) List(ctx context.Context) ([]masterdata.Country, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("country repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, fir, debitor1, kreditor, kst, iso, name, partner_status, created_at, updated_at
FROM countries
ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var countries []masterdata.Country
	for rows.Next() {
		var c masterdata.Country
		if err := rows.Scan(&c.ID, &c.FIR, &c.Debitor1, &c.Kreditor, &c.KST, &c.ISO, &c.Name, &c.PartnerStatus, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// ReplaceAll replaces the country master wholesale in one transaction.
func (r *CountryRepository) ReplaceAll(ctx context.Context, countries []masterdata.Country) error {
	if r == nil || r.db == nil {
		return errors.New("country repo: nil db")
	}
	for _, c := range countries {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM countries`); err != nil {
		_ = tx.Rollback()
		return err
	}
	now := time.Now().UTC()
	for _, c := range countries {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		_, err := tx.ExecContext(ctx, `
INSERT INTO countries (id, fir, debitor1, kreditor, kst, iso, name, partner_status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			c.ID, c.FIR, c.Debitor1, c.Kreditor, c.KST, c.ISO, c.Name, c.PartnerStatus, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func scanCountry(row *sql.Row) (*masterdata.Country, error) {
	var c masterdata.Country
	err := row.Scan(&c.ID, &c.FIR, &c.Debitor1, &c.Kreditor, &c.KST, &c.ISO, &c.Name, &c.PartnerStatus, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, masterdata.ErrCountryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
