package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/draymaster/tripplanner/internal/apperrors"
)

func TestNominatimClientGeocodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("expected a User-Agent header")
		}
		json.NewEncoder(w).Encode([]nominatimResult{
			{Lat: "41.8781", Lon: "-87.6298", DisplayName: "Chicago, Illinois, United States"},
		})
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{BaseURL: srv.URL, UserAgent: "test-agent", MinInterval: time.Millisecond}, nil)

	loc, err := c.Geocode(context.Background(), "Chicago, IL")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if loc.Lat != 41.8781 || loc.Lng != -87.6298 {
		t.Errorf("got (%v, %v), want (41.8781, -87.6298)", loc.Lat, loc.Lng)
	}
	if loc.DisplayName != "Chicago, Illinois, United States" {
		t.Errorf("unexpected display name: %q", loc.DisplayName)
	}
}

func TestNominatimClientGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]nominatimResult{})
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{BaseURL: srv.URL, MinInterval: time.Millisecond}, nil)

	_, err := c.Geocode(context.Background(), "Nowhereville")
	if err == nil {
		t.Fatal("expected a not-found error")
	}
	var appErr *apperrors.AppError
	if !asAppError(err, &appErr) {
		t.Fatalf("expected *apperrors.AppError, got %T", err)
	}
	if appErr.Code != "NOT_FOUND" {
		t.Errorf("Code = %q, want NOT_FOUND", appErr.Code)
	}
}

func TestNominatimClientGeocodeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewNominatimClient(Config{BaseURL: srv.URL, MinInterval: time.Millisecond}, nil)

	if _, err := c.Geocode(context.Background(), "Chicago, IL"); err == nil {
		t.Fatal("expected an error for HTTP 500")
	}
}

func TestRateLimiterEnforcesMinInterval(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second Wait returned after %v, want >= 50ms", elapsed)
	}
}

func TestRateLimiterRespectsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	if err := rl.Wait(ctx); err == nil {
		t.Error("expected context deadline error on second Wait")
	}
}

func asAppError(err error, target **apperrors.AppError) bool {
	ae, ok := err.(*apperrors.AppError)
	if ok {
		*target = ae
	}
	return ok
}
