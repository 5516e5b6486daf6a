package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func sampleRecord() domain.TripPlanRecord {
	return domain.TripPlanRecord{
		ID: uuid.New(),
		Input: domain.TripInput{
			CurrentLocation: "Chicago, IL",
			PickupLocation:  "Indianapolis, IN",
			DropoffLocation: "Louisville, KY",
			CycleUsedHours:  10,
		},
		Result: domain.TripResult{
			Summary: domain.TripSummary{TotalDays: 1, TotalDrivingMiles: 400},
		},
		CreatedAt: time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC),
	}
}

func TestPostgresTripPlanRepositorySave(t *testing.T) {
	pool := newMockPool(t)
	repo := newWithPool(pool)
	record := sampleRecord()

	pool.ExpectExec("INSERT INTO trip_plans").
		WithArgs(record.ID, pgxmock.AnyArg(), pgxmock.AnyArg(), record.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Save(context.Background(), record); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresTripPlanRepositoryGet(t *testing.T) {
	pool := newMockPool(t)
	repo := newWithPool(pool)
	record := sampleRecord()

	inputJSON, _ := json.Marshal(record.Input)
	resultJSON, _ := json.Marshal(record.Result)

	rows := pgxmock.NewRows([]string{"id", "input", "result", "created_at"}).
		AddRow(record.ID, inputJSON, resultJSON, record.CreatedAt)

	pool.ExpectQuery("SELECT id, input, result, created_at FROM trip_plans WHERE id = \\$1").
		WithArgs(record.ID).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("ID = %v, want %v", got.ID, record.ID)
	}
	if got.Input.CurrentLocation != record.Input.CurrentLocation {
		t.Errorf("Input.CurrentLocation = %q, want %q", got.Input.CurrentLocation, record.Input.CurrentLocation)
	}
	if got.Result.Summary.TotalDrivingMiles != record.Result.Summary.TotalDrivingMiles {
		t.Errorf("Result.Summary.TotalDrivingMiles mismatch")
	}
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresTripPlanRepositoryGetNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := newWithPool(pool)
	id := uuid.New()

	pool.ExpectQuery("SELECT id, input, result, created_at FROM trip_plans WHERE id = \\$1").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), id)
	if err == nil {
		t.Fatal("expected an error for a missing trip plan")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected an *apperrors.AppError, got %T: %v", err, err)
	}
	if !errors.Is(appErr, apperrors.ErrNotFound) {
		t.Errorf("expected errors.Is(err, apperrors.ErrNotFound) to hold, got code %q", appErr.Code)
	}
}
