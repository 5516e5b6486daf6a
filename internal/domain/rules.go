// Package domain holds the shared types for the HOS trip planner: duty
// statuses, timeline events, daily logs, and the FMCSA rule constants the
// simulator enforces.
package domain

// DutyStatus is the four-valued ELD duty status tag.
type DutyStatus string

const (
	StatusOffDuty    DutyStatus = "OFF"
	StatusSleeper    DutyStatus = "SB"
	StatusDriving    DutyStatus = "D"
	StatusOnDutyNotD DutyStatus = "ON"
)

// Rules holds the FMCSA 70-hour/8-day property-carrying constants, in
// minutes unless noted. Values come from the Interstate Truck Driver's
// Guide to HOS (FMCSA-HOS-395). The zero value is never valid; always use
// DefaultRules or an override layered on top of it.
type Rules struct {
	MaxDrivingMins        int     // 11h driving per shift
	MaxWindowMins         int     // 14h on-duty window per shift
	MaxDriveBeforeBreak   int     // 8h driving between mandatory breaks
	RestMins              int     // 10h off-duty reset
	BreakMins             int     // 30-minute mandatory break
	RestartMins           int     // 34h cycle restart
	MaxCycleMins          int     // 70h cycle ceiling
	FuelIntervalMiles     float64 // distance between fuel stops
	FuelDurationMins      int
	PickupDurationMins    int
	DropoffDurationMins   int
	AverageSpeedMPH       float64
}

// DefaultRules returns the standard property-carrying driver constants.
// Callers that need a tuned variant (e.g. a different average speed for
// local drayage) should copy this and override individual fields rather
// than mutate the shared default.
func DefaultRules() Rules {
	return Rules{
		MaxDrivingMins:      660,
		MaxWindowMins:       840,
		MaxDriveBeforeBreak: 480,
		RestMins:            600,
		BreakMins:           30,
		RestartMins:         2040,
		MaxCycleMins:        4200,
		FuelIntervalMiles:   1000,
		FuelDurationMins:    30,
		PickupDurationMins:  60,
		DropoffDurationMins: 60,
		AverageSpeedMPH:     55,
	}
}
