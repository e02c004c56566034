// Package archive persists generated gateway balance reports.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that no stored report matched the query.
var ErrNotFound = errors.New("report not found")

// Report is one stored gateway_balances result.
type Report struct {
	ID          int             `json:"id"`
	Account     string          `json:"account"`
	LedgerIndex uint32          `json:"ledgerIndex"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for reports.
type Repository interface {
	Save(ctx context.Context, account string, ledgerIndex uint32, data json.RawMessage) error
	GetLatest(ctx context.Context, account string) (*Report, error)
	GetByLedger(ctx context.Context, account string, ledgerIndex uint32) (*Report, error)
	List(ctx context.Context, account string, limit int) ([]Report, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL report repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Save upserts the report for (account, ledger index): regenerating a report
// for the same pinned ledger replaces the stored payload.
func (r *PgRepository) Save(ctx context.Context, account string, ledgerIndex uint32, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO gateway_reports (account, ledger_index, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (account, ledger_index)
		 DO UPDATE SET data = $3::jsonb`,
		account, int64(ledgerIndex), data)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, account string) (*Report, error) {
	return r.get(ctx,
		`SELECT id, account, ledger_index, data, created_at
		 FROM gateway_reports
		 WHERE account = $1
		 ORDER BY ledger_index DESC
		 LIMIT 1`, account)
}

func (r *PgRepository) GetByLedger(ctx context.Context, account string, ledgerIndex uint32) (*Report, error) {
	return r.get(ctx,
		`SELECT id, account, ledger_index, data, created_at
		 FROM gateway_reports
		 WHERE account = $1 AND ledger_index = $2`, account, int64(ledgerIndex))
}

func (r *PgRepository) get(ctx context.Context, query string, args ...any) (*Report, error) {
	var rep Report
	var idx int64
	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&rep.ID, &rep.Account, &idx, &rep.Data, &rep.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting report: %w", err)
	}
	rep.LedgerIndex = uint32(idx)
	return &rep, nil
}

func (r *PgRepository) List(ctx context.Context, account string, limit int) ([]Report, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account, ledger_index, data, created_at
		 FROM gateway_reports
		 WHERE account = $1
		 ORDER BY ledger_index DESC
		 LIMIT $2`, account, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		var idx int64
		if err := rows.Scan(&rep.ID, &rep.Account, &idx, &rep.Data, &rep.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		rep.LedgerIndex = uint32(idx)
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}
