package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripInput is the validated request to plan a trip.
type TripInput struct {
	CurrentLocation  string  `json:"current_location"`
	PickupLocation   string  `json:"pickup_location"`
	DropoffLocation  string  `json:"dropoff_location"`
	CycleUsedHours   float64 `json:"cycle_used_hours"`
}

// RouteLeg is one geocoded, routed leg of the trip.
type RouteLeg struct {
	From           string      `json:"from"`
	To             string      `json:"to"`
	DistanceMiles  float64     `json:"distance_miles"`
	DurationHours  float64     `json:"duration_hours"`
	Geometry       [][2]float64 `json:"geometry"`
}

// Route is the full two-leg route summary.
type Route struct {
	Legs                []RouteLeg `json:"legs"`
	TotalDistanceMiles  float64    `json:"total_distance_miles"`
	TotalDurationHours  float64    `json:"total_duration_hours"`
}

// Stop is a non-driving event surfaced as a map marker.
type Stop struct {
	Type         StopKind  `json:"type"`
	Location     string    `json:"location"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	StartTime    time.Time `json:"start_time"`
	DurationMins int       `json:"duration_mins"`
	Note         string    `json:"note"`
}

// TripSummary is the headline numbers for a plan.
type TripSummary struct {
	TotalDays          int     `json:"total_days"`
	TotalDrivingMiles  float64 `json:"total_driving_miles"`
	CycleHoursAtStart  float64 `json:"cycle_hours_at_start"`
	CycleHoursAtEnd    float64 `json:"cycle_hours_at_end"`
}

// TripResult is the full output of the planning pipeline — everything the
// HTTP response and the map/log UI need.
type TripResult struct {
	Route     Route           `json:"route"`
	Timeline  []TimelineEvent `json:"timeline"`
	DailyLogs []DailyLog      `json:"daily_logs"`
	Stops     []Stop          `json:"stops"`
	Summary   TripSummary     `json:"summary"`
}

// TripPlanRecord is the persisted envelope around a computed plan, keyed
// by an opaque ID so a dispatcher can retrieve it later.
type TripPlanRecord struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Input     TripInput  `json:"input" db:"-"`
	Result    TripResult `json:"result" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
