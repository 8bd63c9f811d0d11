package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/spotpulse/internal/domain/models"
)

// ErrConstraint is returned when Postgres rejects rows through a CHECK constraint.
var ErrConstraint = errors.New("storage: row violates a table constraint")

// pgCheckViolation is the SQLSTATE for check_violation.
const pgCheckViolation = "23514"

// PricesRepository defines the contract for price and fetch-log persistence.
type PricesRepository interface {
	UpsertPrices(ctx context.Context, area string, doc *models.PriceDocument) (int, error)
	LoadPrices(ctx context.Context, area string, from, to time.Time) ([]models.StoredPrice, error)
	ExportPrices(ctx context.Context, area string) ([]models.StoredPrice, error)
	HasFetch(ctx context.Context, area string, periodStart time.Time) (bool, error)
	UpsertFetchLog(ctx context.Context, area string, periodStart, periodEnd time.Time, rowCount int) error
}

type pricesRepository struct {
	db *sql.DB
}

func NewPricesRepository(db *sql.DB) PricesRepository {
	return &pricesRepository{db: db}
}

// UpsertPrices stores every sample of doc under area in one transaction.
//
// Rows are streamed into a transaction-scoped staging table with COPY and then
// merged into prices, so a revised publication overwrites earlier values for
// the same (ts, price_area). Prices are stored in EUR/kWh rounded to 5 places.
func (r *pricesRepository) UpsertPrices(ctx context.Context, area string, doc *models.PriceDocument) (int, error) {
	if len(doc.Prices) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		CREATE TEMP TABLE prices_stage (LIKE prices INCLUDING DEFAULTS) ON COMMIT DROP
	`); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("prices_stage", "ts", "price_area", "price_kwh", "currency"))
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	for _, p := range doc.Prices {
		if _, err := stmt.ExecContext(ctx,
			p.Timestamp.UTC(),
			area,
			p.PricePerKWh().Round(5),
			doc.Currency,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return 0, mapPQError(err)
		}
	}

	// flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return 0, mapPQError(err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO prices (ts, price_area, price_kwh, currency)
		SELECT ts, price_area, price_kwh, currency FROM prices_stage
		ON CONFLICT (ts, price_area)
		DO UPDATE SET price_kwh = EXCLUDED.price_kwh,
		              currency = EXCLUDED.currency
	`)
	if err != nil {
		_ = tx.Rollback()
		return 0, mapPQError(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return len(doc.Prices), nil
	}
	return int(n), nil
}

// LoadPrices returns the rows of area with from <= ts < to, ordered by ts.
func (r *pricesRepository) LoadPrices(ctx context.Context, area string, from, to time.Time) ([]models.StoredPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ts, price_kwh, currency, price_area
		FROM prices
		WHERE price_area = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts
	`, area, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return scanPrices(rows)
}

// ExportPrices returns every stored row of area, or of all areas when area is
// empty, ordered by timestamp and then area.
func (r *pricesRepository) ExportPrices(ctx context.Context, area string) ([]models.StoredPrice, error) {
	query := `SELECT ts, price_kwh, currency, price_area FROM prices`
	var args []interface{}
	if area != "" {
		query += ` WHERE price_area = $1`
		args = append(args, area)
	}
	query += ` ORDER BY ts, price_area`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanPrices(rows)
}

// HasFetch reports whether a publication for area starting at periodStart was already stored.
func (r *pricesRepository) HasFetch(ctx context.Context, area string, periodStart time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM fetch_log WHERE price_area = $1 AND period_start = $2)`,
		area, periodStart.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertFetchLog records (or refreshes) a successful fetch for area.
func (r *pricesRepository) UpsertFetchLog(ctx context.Context, area string, periodStart, periodEnd time.Time, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fetch_log (price_area, period_start, period_end, row_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (price_area, period_start)
		DO UPDATE SET period_end = EXCLUDED.period_end,
		              row_count = EXCLUDED.row_count,
		              fetched_at = NOW()
	`, area, periodStart.UTC(), periodEnd.UTC(), rowCount)
	return err
}

func scanPrices(rows *sql.Rows) ([]models.StoredPrice, error) {
	defer func() { _ = rows.Close() }()

	var out []models.StoredPrice
	for rows.Next() {
		var p models.StoredPrice
		if err := rows.Scan(&p.Timestamp, &p.Price, &p.Currency, &p.Area); err != nil {
			return nil, err
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// mapPQError translates Postgres constraint failures into ErrConstraint.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgCheckViolation {
		return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
	}
	return err
}
