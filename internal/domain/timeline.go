package domain

import "time"

// TimelineEvent is one contiguous duty-status block emitted by the
// simulator. Events within a single Simulator's Timeline() are
// non-overlapping and strictly time-ordered: event i's EndTime equals
// event i+1's StartTime.
type TimelineEvent struct {
	Status       DutyStatus `json:"status"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	DurationMins int        `json:"duration_mins"`
	Location     string     `json:"location"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Note         string     `json:"note"`
	Kind         StopKind   `json:"kind,omitempty"`
	Day          int        `json:"day"`
}

// StopKind classifies a non-driving event for map-marker display. Set
// explicitly by the code that emits the event (simulator, orchestrator)
// rather than inferred later by matching substrings in Note.
type StopKind string

const (
	StopKindNone     StopKind = ""
	StopKindPickup   StopKind = "pickup"
	StopKindDropoff  StopKind = "dropoff"
	StopKindFuel     StopKind = "fuel"
	StopKindRest     StopKind = "rest"
	StopKindBreak    StopKind = "break"
	StopKindGeneric  StopKind = "stop"
)
