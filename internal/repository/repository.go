// Package repository persists computed trip plans to Postgres, in the
// same raw-SQL-over-pgxpool style as the order-service's shipment
// repository: an interface the service layer depends on, and a Postgres
// implementation behind it.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
)

// pgxIface is the slice of *pgxpool.Pool's surface this repository
// needs. Defining it lets tests substitute a pgxmock pool without the
// repository depending on anything beyond Exec/QueryRow.
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TripPlanRepository persists and retrieves computed trip plans.
type TripPlanRepository interface {
	Save(ctx context.Context, record domain.TripPlanRecord) error
	Get(ctx context.Context, id uuid.UUID) (domain.TripPlanRecord, error)
}

// PostgresTripPlanRepository implements TripPlanRepository using
// PostgreSQL. Input and Result are stored as JSONB — the plan is written
// once and read back whole, so there's no need to normalize the timeline
// and daily logs into their own tables.
type PostgresTripPlanRepository struct {
	pool pgxIface
}

// NewPostgresTripPlanRepository constructs a Postgres-backed repository.
func NewPostgresTripPlanRepository(pool *pgxpool.Pool) *PostgresTripPlanRepository {
	return &PostgresTripPlanRepository{pool: pool}
}

// newWithPool is the test seam: pgxmock's mock pool satisfies pgxIface
// but is not a *pgxpool.Pool, so it can't go through the exported
// constructor above.
func newWithPool(pool pgxIface) *PostgresTripPlanRepository {
	return &PostgresTripPlanRepository{pool: pool}
}

// Save inserts a new trip plan record.
func (r *PostgresTripPlanRepository) Save(ctx context.Context, record domain.TripPlanRecord) error {
	inputJSON, err := json.Marshal(record.Input)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	const query = `
		INSERT INTO trip_plans (id, input, result, created_at)
		VALUES ($1, $2, $3, $4)`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err = r.pool.Exec(ctx, query, record.ID, inputJSON, resultJSON, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trip plan: %w", err)
	}
	return nil
}

// Get retrieves a trip plan by ID.
func (r *PostgresTripPlanRepository) Get(ctx context.Context, id uuid.UUID) (domain.TripPlanRecord, error) {
	const query = `SELECT id, input, result, created_at FROM trip_plans WHERE id = $1`

	var (
		record     domain.TripPlanRecord
		inputJSON  []byte
		resultJSON []byte
	)

	row := r.pool.QueryRow(ctx, query, id)
	if err := row.Scan(&record.ID, &inputJSON, &resultJSON, &record.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.TripPlanRecord{}, apperrors.NotFoundError("trip plan", id.String())
		}
		return domain.TripPlanRecord{}, fmt.Errorf("select trip plan: %w", err)
	}

	if err := json.Unmarshal(inputJSON, &record.Input); err != nil {
		return domain.TripPlanRecord{}, fmt.Errorf("unmarshal input: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &record.Result); err != nil {
		return domain.TripPlanRecord{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return record, nil
}
