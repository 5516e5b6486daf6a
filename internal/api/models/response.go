package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/draymaster/tripplanner/internal/domain"
)

// ErrorDetail is the body of an error response, matching the shape the
// rest of the fleet's HTTP surfaces use.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorDetail under an "error" key.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// PlanTripResponse is the JSON body returned from a successful
// POST /api/plan-trip.
type PlanTripResponse struct {
	ID        uuid.UUID        `json:"id"`
	Route     domain.Route     `json:"route"`
	Timeline  []domain.TimelineEvent `json:"timeline"`
	DailyLogs []domain.DailyLog `json:"daily_logs"`
	Stops     []domain.Stop    `json:"stops"`
	Summary   domain.TripSummary `json:"summary"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromRecord builds the response body from a persisted plan record.
func FromRecord(record domain.TripPlanRecord) PlanTripResponse {
	return PlanTripResponse{
		ID:        record.ID,
		Route:     record.Result.Route,
		Timeline:  record.Result.Timeline,
		DailyLogs: record.Result.DailyLogs,
		Stops:     record.Result.Stops,
		Summary:   record.Result.Summary,
		CreatedAt: record.CreatedAt,
	}
}

// HealthResponse is the JSON body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
