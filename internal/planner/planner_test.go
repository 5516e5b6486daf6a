package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/domain"
	"github.com/draymaster/tripplanner/internal/geocode"
	"github.com/draymaster/tripplanner/internal/logger"
	"github.com/draymaster/tripplanner/internal/routing"
)

// =============================================================================
// FAKE COLLABORATORS
// =============================================================================

type fakeGeocoder struct {
	locations map[string]geocode.Location
	err       error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (geocode.Location, error) {
	if f.err != nil {
		return geocode.Location{}, f.err
	}
	loc, ok := f.locations[query]
	if !ok {
		return geocode.Location{}, errors.New("unknown location: " + query)
	}
	return loc, nil
}

type fakeRouter struct {
	leg routing.Leg
	err error
}

func (f *fakeRouter) Route(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (routing.Leg, error) {
	if f.err != nil {
		return routing.Leg{}, f.err
	}
	return f.leg, nil
}

type mockRepo struct {
	records   map[uuid.UUID]domain.TripPlanRecord
	saveErr   error
	getErr    error
	saveCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]domain.TripPlanRecord)}
}

func (m *mockRepo) Save(ctx context.Context, record domain.TripPlanRecord) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id uuid.UUID) (domain.TripPlanRecord, error) {
	if m.getErr != nil {
		return domain.TripPlanRecord{}, m.getErr
	}
	record, ok := m.records[id]
	if !ok {
		return domain.TripPlanRecord{}, errors.New("not found")
	}
	return record, nil
}

type mockPublisher struct {
	publishCalls int
	err          error
}

func (m *mockPublisher) PublishTripCompleted(ctx context.Context, record domain.TripPlanRecord) error {
	m.publishCalls++
	return m.err
}

// =============================================================================
// TESTS
// =============================================================================

func newTestService(geocoder geocode.Geocoder, router routing.Router, opts ...Option) *Service {
	start := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	allOpts := append([]Option{WithClock(func() time.Time { return start })}, opts...)
	return New(geocoder, router, logger.Default(), allOpts...)
}

func standardGeocoder() *fakeGeocoder {
	return &fakeGeocoder{locations: map[string]geocode.Location{
		"Chicago, IL":     {Lat: 41.8781, Lng: -87.6298, DisplayName: "Chicago, Illinois"},
		"Indianapolis, IN": {Lat: 39.7684, Lng: -86.1581, DisplayName: "Indianapolis, Indiana"},
		"Louisville, KY":  {Lat: 38.2527, Lng: -85.7585, DisplayName: "Louisville, Kentucky"},
	}}
}

func TestPlanTripHappyPath(t *testing.T) {
	geocoder := standardGeocoder()
	router := &fakeRouter{leg: routing.Leg{DistanceMiles: 200, DurationHours: 3.5}}
	repo := newMockRepo()
	pub := &mockPublisher{}

	svc := newTestService(geocoder, router, WithRepository(repo), WithEventPublisher(pub))

	record, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Chicago, IL",
		PickupLocation:  "Indianapolis, IN",
		DropoffLocation: "Louisville, KY",
		CycleUsedHours:  10,
	})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	if record.ID == uuid.Nil {
		t.Error("expected a non-nil trip ID")
	}
	if len(record.Result.Route.Legs) != 2 {
		t.Fatalf("expected 2 route legs, got %d", len(record.Result.Route.Legs))
	}
	if record.Result.Route.TotalDistanceMiles != 400 {
		t.Errorf("TotalDistanceMiles = %v, want 400", record.Result.Route.TotalDistanceMiles)
	}
	if len(record.Result.DailyLogs) == 0 {
		t.Error("expected at least one daily log")
	}
	if len(record.Result.Stops) < 2 {
		t.Errorf("expected at least pickup and dropoff stops, got %d", len(record.Result.Stops))
	}
	if repo.saveCalls != 1 {
		t.Errorf("expected repository Save to be called once, got %d", repo.saveCalls)
	}
	if pub.publishCalls != 1 {
		t.Errorf("expected event publisher to be called once, got %d", pub.publishCalls)
	}
}

func TestPlanTripGeocodeFailurePropagates(t *testing.T) {
	geocoder := &fakeGeocoder{err: errors.New("boom")}
	router := &fakeRouter{leg: routing.Leg{DistanceMiles: 100}}

	svc := newTestService(geocoder, router)

	_, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Nowhere", PickupLocation: "Nowhere", DropoffLocation: "Nowhere",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	var stageErr *Error
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *planner.Error, got %T", err)
	}
	if stageErr.Stage != StageGeocode {
		t.Errorf("Stage = %q, want geocode", stageErr.Stage)
	}
}

func TestPlanTripRouteFailurePropagates(t *testing.T) {
	geocoder := standardGeocoder()
	router := &fakeRouter{err: errors.New("routing provider down")}

	svc := newTestService(geocoder, router)

	_, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Louisville, KY",
	})
	var stageErr *Error
	if !errors.As(err, &stageErr) || stageErr.Stage != StageRoute {
		t.Fatalf("expected a route-stage error, got %v", err)
	}
}

func TestPlanTripSucceedsWithoutOptionalCollaborators(t *testing.T) {
	geocoder := standardGeocoder()
	router := &fakeRouter{leg: routing.Leg{DistanceMiles: 50}}

	svc := newTestService(geocoder, router)

	record, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Louisville, KY",
	})
	if err != nil {
		t.Fatalf("PlanTrip without repo/publisher: %v", err)
	}
	if record.ID == uuid.Nil {
		t.Error("expected a computed record even with no persistence configured")
	}
}

func TestPlanTripPersistenceFailureDoesNotFailRequest(t *testing.T) {
	geocoder := standardGeocoder()
	router := &fakeRouter{leg: routing.Leg{DistanceMiles: 50}}
	repo := newMockRepo()
	repo.saveErr = errors.New("db unavailable")

	svc := newTestService(geocoder, router, WithRepository(repo))

	_, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Louisville, KY",
	})
	if err != nil {
		t.Fatalf("expected PlanTrip to succeed despite a persistence failure, got %v", err)
	}
}

func TestGetTripWithoutRepositoryReturnsNotFound(t *testing.T) {
	svc := newTestService(standardGeocoder(), &fakeRouter{})

	_, err := svc.GetTrip(context.Background(), uuid.New())
	if err == nil {
		t.Error("expected an error when no repository is configured")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected errors.Is(err, apperrors.ErrNotFound) to hold, got %v", err)
	}
}

func TestGetTripWithConfiguredRepositoryMissingIDReturnsNotFound(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = apperrors.NotFoundError("trip plan", "missing")

	svc := newTestService(standardGeocoder(), &fakeRouter{}, WithRepository(repo))

	_, err := svc.GetTrip(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected an error for a missing trip plan")
	}
	appErr := AsAppError(err)
	if !errors.Is(appErr, apperrors.ErrNotFound) {
		t.Errorf("expected errors.Is(err, apperrors.ErrNotFound) to hold, got code %q", appErr.Code)
	}
}

func TestGetTripRoundTripsThroughRepository(t *testing.T) {
	geocoder := standardGeocoder()
	router := &fakeRouter{leg: routing.Leg{DistanceMiles: 50}}
	repo := newMockRepo()

	svc := newTestService(geocoder, router, WithRepository(repo))

	record, err := svc.PlanTrip(context.Background(), domain.TripInput{
		CurrentLocation: "Chicago, IL", PickupLocation: "Indianapolis, IN", DropoffLocation: "Louisville, KY",
	})
	if err != nil {
		t.Fatalf("PlanTrip: %v", err)
	}

	got, err := svc.GetTrip(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.ID != record.ID {
		t.Errorf("GetTrip returned a different record: got %v, want %v", got.ID, record.ID)
	}
}
