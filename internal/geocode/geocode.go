// Package geocode resolves free-text location strings to coordinates
// against the Nominatim (OpenStreetMap) search API, following the same
// REST-client shape as the fleet's eModal integration: a small config
// struct, a *http.Client with a timeout, and JSON response types that
// mirror the wire format.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/logger"
)

// Location is a resolved geocoding result.
type Location struct {
	Lat float64
	Lng float64
	// DisplayName is Nominatim's canonicalized label, used in the
	// timeline and logs in place of the caller's raw input.
	DisplayName string
}

// Geocoder resolves a free-text query to a Location.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Location, error)
}

// Config holds the Nominatim client's settings.
type Config struct {
	BaseURL       string        // e.g. https://nominatim.openstreetmap.org/search
	UserAgent     string        // Nominatim's usage policy requires an identifying UA
	MinInterval   time.Duration // floor between requests; Nominatim's policy caps at 1/s
	Timeout       time.Duration
}

// NominatimClient is the Geocoder implementation for the public Nominatim
// instance. A single instance owns its RateLimiter — there is no
// package-level shared state — so two independently-constructed clients
// never contend over a clock neither of them can see.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *RateLimiter
	log        *logger.Logger
}

// NewNominatimClient constructs a rate-limited Nominatim client.
func NewNominatimClient(cfg Config, log *logger.Logger) *NominatimClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	minInterval := cfg.MinInterval
	if minInterval == 0 {
		minInterval = time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &NominatimClient{
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    NewRateLimiter(minInterval),
		log:        log,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves query to coordinates, waiting on the rate limiter
// first. Returns an apperrors.AppError wrapping ErrExternalService on any
// transport, HTTP, or decode failure, and ErrNotFound if Nominatim
// returns zero results.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Location{}, err
	}

	u := c.baseURL + "?" + url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Location{}, apperrors.ExternalServiceError("nominatim", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.log.WithFields(map[string]interface{}{"query": query}).Debugw("geocoding request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Location{}, apperrors.ExternalServiceError("nominatim", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Location{}, apperrors.ExternalServiceError("nominatim",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, apperrors.ExternalServiceError("nominatim", fmt.Errorf("decode: %w", err))
	}
	if len(results) == 0 {
		return Location{}, apperrors.NotFoundError("location", query)
	}

	var lat, lng float64
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &lat); err != nil {
		return Location{}, apperrors.ExternalServiceError("nominatim", fmt.Errorf("parse lat: %w", err))
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &lng); err != nil {
		return Location{}, apperrors.ExternalServiceError("nominatim", fmt.Errorf("parse lon: %w", err))
	}

	return Location{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}

// RateLimiter enforces a minimum interval between successive Wait calls.
// It is an owned, mutex-guarded object rather than a package-level
// timestamp: every NominatimClient gets its own, so concurrent clients
// (e.g. in tests, or a future multi-tenant deployment) never serialize
// against each other's request history.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter builds a limiter enforcing at least interval between
// Wait calls.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until interval has elapsed since the previous Wait call
// returned, or ctx is canceled first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last.IsZero() {
		r.last = time.Now()
		return nil
	}

	elapsed := time.Since(r.last)
	if elapsed >= r.interval {
		r.last = time.Now()
		return nil
	}

	timer := time.NewTimer(r.interval - elapsed)
	defer timer.Stop()
	select {
	case <-timer.C:
		r.last = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
