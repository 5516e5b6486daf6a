// Package simulator implements the HOS trip simulator: a deterministic
// state machine that, given a sequence of planned activities (drive N
// miles, pickup, dropoff) and a starting cycle balance, inserts every
// mandatory break, off-duty rest, cycle restart, and fuel stop the FMCSA
// 70-hour/8-day rule requires, and emits the resulting duty-status
// timeline.
//
// The Simulator is single-threaded and non-blocking: it never performs
// I/O and consults no clock besides the start_time passed to New. Each
// instance is owned by exactly one caller for its lifetime.
package simulator

import (
	"math"
	"time"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
)

// Simulator holds the mutable HOS state for a single trip.
type Simulator struct {
	rules domain.Rules

	clock          time.Time
	shiftDriving   int
	windowStart    *time.Time
	sinceBreak     int
	cycleUsed      int
	milesSinceFuel float64
	totalMiles     float64

	timeline []domain.TimelineEvent
	day      int
}

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithRules overrides the FMCSA constants (e.g. for a future exception
// profile). Defaults to domain.DefaultRules().
func WithRules(rules domain.Rules) Option {
	return func(s *Simulator) { s.rules = rules }
}

// New constructs a Simulator. cycleUsedHours seeds the 70-hour cycle
// counter and must be in [0, 70). startTime must not be before the Unix
// epoch. Both are reported as InvalidInput-class errors; no state is
// mutated on failure because there is nothing yet to mutate.
func New(cycleUsedHours float64, startTime time.Time, opts ...Option) (*Simulator, error) {
	if cycleUsedHours < 0 || cycleUsedHours >= 70 {
		return nil, apperrors.ValidationError(
			"cycle_used_hours must be in [0, 70)", "cycle_used_hours", cycleUsedHours)
	}
	if startTime.Before(time.Unix(0, 0)) {
		return nil, apperrors.ValidationError(
			"start_time must not be before the Unix epoch", "start_time", startTime)
	}

	s := &Simulator{
		rules: domain.DefaultRules(),
		clock: startTime,
		day:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cycleUsed = int(cycleUsedHours * 60)
	return s, nil
}

// Timeline returns a read-only snapshot of the emitted events.
func (s *Simulator) Timeline() []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, len(s.timeline))
	copy(out, s.timeline)
	return out
}

// TotalMiles returns the total miles driven so far, rounded to 1 decimal.
func (s *Simulator) TotalMiles() float64 {
	return math.Round(s.totalMiles*10) / 10
}

// CycleUsedHours returns the current 70-hour cycle balance in hours.
func (s *Simulator) CycleUsedHours() float64 {
	return float64(s.cycleUsed) / 60
}

// Clock returns the simulator's current point in time (i.e. the end time
// of the last emitted event, or the start time if none have been emitted
// yet).
func (s *Simulator) Clock() time.Time {
	return s.clock
}

// AddPickup emits a 60-minute on-duty pickup event.
func (s *Simulator) AddPickup(location string, lat, lng float64) {
	s.onDutyStop(s.rules.PickupDurationMins, location, lat, lng, "Loading at pickup", domain.StopKindPickup)
}

// AddDropoff emits a 60-minute on-duty dropoff event.
func (s *Simulator) AddDropoff(location string, lat, lng float64) {
	s.onDutyStop(s.rules.DropoffDurationMins, location, lat, lng, "Unloading at dropoff", domain.StopKindDropoff)
}

// DriveSegment plans driving of approximately miles at the configured
// average speed, inserting HOS interrupts as required. It terminates in
// finite steps for any finite miles >= 0: every iteration advances
// remaining by at least half a mile's worth of drive time.
func (s *Simulator) DriveSegment(miles float64, fromLabel, toLabel string, latFrom, lngFrom, latTo, lngTo float64) error {
	if miles < 0 {
		return apperrors.ValidationError("miles must not be negative", "miles", miles)
	}

	remaining := miles
	for remaining > 0.5 {
		toFuel := s.rules.FuelIntervalMiles - s.milesSinceFuel
		chunkMi := math.Min(remaining, math.Max(toFuel, 0.5))
		chunkMin := int(math.Max(1, math.Round(chunkMi/s.rules.AverageSpeedMPH*60)))

		driven := s.drive(chunkMin, fromLabel, toLabel, latFrom, lngFrom)

		actualMi := float64(driven) / 60 * s.rules.AverageSpeedMPH
		remaining -= actualMi
		s.milesSinceFuel += actualMi
		s.totalMiles += actualMi

		if s.milesSinceFuel >= s.rules.FuelIntervalMiles && remaining > 0.5 {
			s.fuelStop(fromLabel, latFrom, lngFrom)
		}
	}
	return nil
}

// drive consumes minutes of driving time, inserting whatever breaks,
// rests, and restarts the HOS counters require, and returns the total
// minutes actually spent driving (always equal to minutes — interrupts
// are inserted around the driving, never instead of it). Written as an
// explicit loop rather than the naturally tail-recursive form the rule
// description suggests, since Go gives no tail-call guarantee.
func (s *Simulator) drive(minutes int, from, to string, lat, lng float64) int {
	driven := 0
	remaining := minutes

	for remaining > 0 {
		if s.cycleUsed >= s.rules.MaxCycleMins {
			s.restart(from, lat, lng)
		}
		s.openWindow()

		avail := s.rules.MaxDrivingMins - s.shiftDriving
		avail = minInt(avail, s.windowLeft())
		avail = minInt(avail, s.rules.MaxDriveBeforeBreak-s.sinceBreak)
		avail = minInt(avail, s.rules.MaxCycleMins-s.cycleUsed)

		if avail <= 0 {
			s.rest(from, lat, lng)
			continue
		}

		now := minInt(remaining, avail)
		note := "Driving"
		if from != "" && to != "" {
			note = "Driving: " + from + " → " + to
		}
		s.emit(domain.StatusDriving, now, from, lat, lng, note, domain.StopKindNone)

		s.shiftDriving += now
		s.sinceBreak += now
		s.cycleUsed += now
		driven += now
		remaining -= now

		if remaining <= 0 {
			break
		}

		// Handle whatever limit this burst just hit, in priority order:
		// break first (keeps the driver legal for the next chunk), then
		// shift/window (drivers typically finish the shift rather than
		// idle inside it), then cycle (rarest trigger).
		if s.sinceBreak >= s.rules.MaxDriveBeforeBreak {
			s.breakEvent(from, lat, lng)
		}
		if s.shiftDriving >= s.rules.MaxDrivingMins || s.windowLeft() == 0 {
			s.rest(from, lat, lng)
		}
		if s.cycleUsed >= s.rules.MaxCycleMins {
			s.restart(from, lat, lng)
		}
	}

	return driven
}

func (s *Simulator) fuelStop(loc string, lat, lng float64) {
	s.openWindow()
	if loc == "" {
		loc = "Fuel station"
	}
	s.emit(domain.StatusOnDutyNotD, s.rules.FuelDurationMins, loc, lat, lng, "Fuel stop", domain.StopKindFuel)
	s.milesSinceFuel = 0
	s.cycleUsed += s.rules.FuelDurationMins
	s.sinceBreak = 0
}

func (s *Simulator) rest(loc string, lat, lng float64) {
	if loc == "" {
		loc = "Rest area"
	}
	s.emit(domain.StatusOffDuty, s.rules.RestMins, loc, lat, lng, "10-hour off-duty rest", domain.StopKindRest)
	s.resetShift()
}

func (s *Simulator) restart(loc string, lat, lng float64) {
	s.emit(domain.StatusOffDuty, s.rules.RestartMins, loc, lat, lng, "34-hour restart (cycle)", domain.StopKindRest)
	s.resetAll()
}

func (s *Simulator) breakEvent(loc string, lat, lng float64) {
	if loc == "" {
		loc = "Rest area"
	}
	s.emit(domain.StatusOffDuty, s.rules.BreakMins, loc, lat, lng, "30-minute break", domain.StopKindBreak)
	s.sinceBreak = 0
}

func (s *Simulator) onDutyStop(mins int, loc string, lat, lng float64, note string, kind domain.StopKind) {
	s.openWindow()
	s.emit(domain.StatusOnDutyNotD, mins, loc, lat, lng, note, kind)
	s.cycleUsed += mins
	if mins >= s.rules.BreakMins {
		s.sinceBreak = 0
	}
}

func (s *Simulator) openWindow() {
	if s.windowStart == nil {
		t := s.clock
		s.windowStart = &t
	}
}

func (s *Simulator) windowLeft() int {
	if s.windowStart == nil {
		return s.rules.MaxWindowMins
	}
	elapsed := int(s.clock.Sub(*s.windowStart).Minutes())
	left := s.rules.MaxWindowMins - elapsed
	if left < 0 {
		return 0
	}
	return left
}

func (s *Simulator) resetShift() {
	s.shiftDriving = 0
	s.windowStart = nil
	s.sinceBreak = 0
}

func (s *Simulator) resetAll() {
	s.resetShift()
	s.cycleUsed = 0
}

func (s *Simulator) emit(status domain.DutyStatus, mins int, loc string, lat, lng float64, note string, kind domain.StopKind) {
	start := s.clock
	end := start.Add(time.Duration(mins) * time.Minute)

	day := s.day
	startDate := dateOnly(start)
	endDate := dateOnly(end)
	if endDate.After(startDate) {
		s.day += int(endDate.Sub(startDate).Hours() / 24)
	}

	s.timeline = append(s.timeline, domain.TimelineEvent{
		Status:       status,
		StartTime:    start,
		EndTime:      end,
		DurationMins: mins,
		Location:     loc,
		Lat:          lat,
		Lng:          lng,
		Note:         note,
		Kind:         kind,
		Day:          day,
	})
	s.clock = end
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
