// Package planner orchestrates a trip plan end to end: geocode the three
// named locations, route the two legs, run them through the HOS
// simulator, build the daily logs, persist the result, and publish a
// completion event. It plays the same role the fleet's *_service.go
// files play for their domains — a thin coordinator built entirely on
// constructor-injected interfaces, with no concrete dependency on any
// one collaborator's implementation.
package planner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
	"github.com/draymaster/tripplanner/internal/geocode"
	"github.com/draymaster/tripplanner/internal/logbuilder"
	"github.com/draymaster/tripplanner/internal/logger"
	"github.com/draymaster/tripplanner/internal/routing"
	"github.com/draymaster/tripplanner/internal/simulator"
)

// Repository persists and retrieves computed trip plans.
type Repository interface {
	Save(ctx context.Context, record domain.TripPlanRecord) error
	Get(ctx context.Context, id uuid.UUID) (domain.TripPlanRecord, error)
}

// EventPublisher announces a completed trip plan to the rest of the
// fleet (dispatch, billing) over the event bus.
type EventPublisher interface {
	PublishTripCompleted(ctx context.Context, record domain.TripPlanRecord) error
}

// Service is the trip-planning orchestrator.
type Service struct {
	geocoder geocode.Geocoder
	router   routing.Router
	repo     Repository     // optional; nil disables persistence
	events   EventPublisher // optional; nil disables event publishing
	log      *logger.Logger
	now      func() time.Time
	rules    *domain.Rules // optional; nil uses simulator defaults
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithRepository attaches a persistence layer. Without one, PlanTrip
// still computes and returns a result, it just isn't retrievable later.
func WithRepository(repo Repository) Option {
	return func(s *Service) { s.repo = repo }
}

// WithEventPublisher attaches an event publisher.
func WithEventPublisher(pub EventPublisher) Option {
	return func(s *Service) { s.events = pub }
}

// WithClock overrides the wall clock PlanTrip starts the simulation
// from. Tests use this to get deterministic output.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRules overrides the HOS constants the simulator runs against,
// e.g. from an operator-supplied exception configuration. Without this
// option the simulator falls back to the standard FMCSA property-carrying
// driver rules.
func WithRules(rules domain.Rules) Option {
	return func(s *Service) { s.rules = &rules }
}

// New constructs a Service from its required collaborators.
func New(geocoder geocode.Geocoder, router routing.Router, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Default()
	}
	s := &Service{
		geocoder: geocoder,
		router:   router,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlanTrip runs the full pipeline for a validated TripInput and returns
// the persisted record. Persistence and event publication failures are
// logged but do not fail the request — the computed plan is still
// useful to the caller even if the write-behind steps fail.
func (s *Service) PlanTrip(ctx context.Context, input domain.TripInput) (domain.TripPlanRecord, error) {
	log := s.log.WithFields(map[string]interface{}{
		"current_location": input.CurrentLocation,
		"pickup_location":  input.PickupLocation,
		"dropoff_location": input.DropoffLocation,
	})

	current, err := s.geocoder.Geocode(ctx, input.CurrentLocation)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageGeocode, err)
	}
	pickup, err := s.geocoder.Geocode(ctx, input.PickupLocation)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageGeocode, err)
	}
	dropoff, err := s.geocoder.Geocode(ctx, input.DropoffLocation)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageGeocode, err)
	}

	leg1, err := s.router.Route(ctx, current.Lat, current.Lng, pickup.Lat, pickup.Lng)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageRoute, err)
	}
	leg2, err := s.router.Route(ctx, pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageRoute, err)
	}

	simOpts := []simulator.Option{}
	if s.rules != nil {
		simOpts = append(simOpts, simulator.WithRules(*s.rules))
	}
	sim, err := simulator.New(input.CycleUsedHours, s.now(), simOpts...)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StageSimulate, err)
	}

	if err := sim.DriveSegment(leg1.DistanceMiles, current.DisplayName, pickup.DisplayName,
		current.Lat, current.Lng, pickup.Lat, pickup.Lng); err != nil {
		return domain.TripPlanRecord{}, newStageError(StageSimulate, err)
	}
	sim.AddPickup(pickup.DisplayName, pickup.Lat, pickup.Lng)

	if err := sim.DriveSegment(leg2.DistanceMiles, pickup.DisplayName, dropoff.DisplayName,
		pickup.Lat, pickup.Lng, dropoff.Lat, dropoff.Lng); err != nil {
		return domain.TripPlanRecord{}, newStageError(StageSimulate, err)
	}
	sim.AddDropoff(dropoff.DisplayName, dropoff.Lat, dropoff.Lng)

	timeline := sim.Timeline()
	dailyLogs := logbuilder.BuildDailyLogs(timeline)
	stops := buildStops(timeline)

	result := domain.TripResult{
		Route: domain.Route{
			Legs: []domain.RouteLeg{
				{From: current.DisplayName, To: pickup.DisplayName, DistanceMiles: leg1.DistanceMiles, DurationHours: leg1.DurationHours, Geometry: leg1.Geometry},
				{From: pickup.DisplayName, To: dropoff.DisplayName, DistanceMiles: leg2.DistanceMiles, DurationHours: leg2.DurationHours, Geometry: leg2.Geometry},
			},
			TotalDistanceMiles: leg1.DistanceMiles + leg2.DistanceMiles,
			TotalDurationHours: leg1.DurationHours + leg2.DurationHours,
		},
		Timeline:  timeline,
		DailyLogs: dailyLogs,
		Stops:     stops,
		Summary: domain.TripSummary{
			TotalDays:         len(dailyLogs),
			TotalDrivingMiles: sim.TotalMiles(),
			CycleHoursAtStart: input.CycleUsedHours,
			CycleHoursAtEnd:   sim.CycleUsedHours(),
		},
	}

	record := domain.TripPlanRecord{
		ID:        uuid.New(),
		Input:     input,
		Result:    result,
		CreatedAt: s.now(),
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, record); err != nil {
			log.WithError(err).Errorw("failed to persist trip plan", "trip_id", record.ID)
		}
	}
	if s.events != nil {
		if err := s.events.PublishTripCompleted(ctx, record); err != nil {
			log.WithError(err).Errorw("failed to publish trip completed event", "trip_id", record.ID)
		}
	}

	log.Infow("trip plan complete", "trip_id", record.ID, "total_days", result.Summary.TotalDays, "total_miles", result.Summary.TotalDrivingMiles)
	return record, nil
}

// GetTrip retrieves a previously persisted plan by ID.
func (s *Service) GetTrip(ctx context.Context, id uuid.UUID) (domain.TripPlanRecord, error) {
	if s.repo == nil {
		return domain.TripPlanRecord{}, newStageError(StagePersist, apperrors.NotFoundError("trip plan", id.String()))
	}
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.TripPlanRecord{}, newStageError(StagePersist, err)
	}
	return record, nil
}

// buildStops extracts the events worth a map marker: anything the
// simulator tagged with an explicit StopKind other than none.
func buildStops(timeline []domain.TimelineEvent) []domain.Stop {
	var stops []domain.Stop
	for _, ev := range timeline {
		if ev.Kind == domain.StopKindNone {
			continue
		}
		stops = append(stops, domain.Stop{
			Type:         ev.Kind,
			Location:     ev.Location,
			Lat:          ev.Lat,
			Lng:          ev.Lng,
			StartTime:    ev.StartTime,
			DurationMins: ev.DurationMins,
			Note:         ev.Note,
		})
	}
	return stops
}
