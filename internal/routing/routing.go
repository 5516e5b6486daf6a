// Package routing computes driving routes between two points using the
// OpenRouteService (ORS) HGV directions API, in the same REST-client
// shape as the fleet's eModal integration.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/draymaster/tripplanner/internal/apperrors"
	"github.com/draymaster/tripplanner/internal/logger"
)

// Leg is one computed driving leg.
type Leg struct {
	DistanceMiles float64
	DurationHours float64
	// Geometry is the decoded route polyline as [lat, lng] pairs, in
	// order from origin to destination.
	Geometry [][2]float64
}

// Router computes a driving leg between two coordinates.
type Router interface {
	Route(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (Leg, error)
}

// Config holds the ORS client's settings.
type Config struct {
	BaseURL string // e.g. https://api.openrouteservice.org/v2/directions/driving-hgv
	APIKey  string
	Timeout time.Duration
}

// ORSClient is the Router implementation backed by OpenRouteService's
// HGV (heavy goods vehicle) driving profile.
type ORSClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewORSClient constructs an ORS routing client.
func NewORSClient(cfg Config, log *logger.Logger) *ORSClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Default()
	}
	return &ORSClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type orsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"` // ORS wants [lng, lat]
}

type orsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
		Geometry string `json:"geometry"` // encoded polyline
	} `json:"routes"`
}

const (
	metersPerMile    = 1609.344
	secondsPerHour   = 3600.0
)

// Route requests a driving leg from (fromLat, fromLng) to (toLat, toLng).
// Distance and duration are converted to miles and hours respectively;
// the geometry is decoded from ORS's polyline encoding into [lat, lng]
// pairs.
func (c *ORSClient) Route(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (Leg, error) {
	reqBody := orsRequest{Coordinates: [][2]float64{{fromLng, fromLat}, {toLng, toLat}}}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Leg{}, apperrors.ExternalServiceError("openrouteservice", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Leg{}, apperrors.ExternalServiceError("openrouteservice", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	c.log.Debugw("routing request", "from_lat", fromLat, "from_lng", fromLng, "to_lat", toLat, "to_lng", toLng)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Leg{}, apperrors.ExternalServiceError("openrouteservice", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Leg{}, apperrors.ExternalServiceError("openrouteservice",
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	var result orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Leg{}, apperrors.ExternalServiceError("openrouteservice", fmt.Errorf("decode: %w", err))
	}
	if len(result.Routes) == 0 {
		return Leg{}, apperrors.ExternalServiceError("openrouteservice", fmt.Errorf("no route returned"))
	}

	route := result.Routes[0]
	return Leg{
		DistanceMiles: route.Summary.Distance / metersPerMile,
		DurationHours: route.Summary.Duration / secondsPerHour,
		Geometry:      DecodePolyline(route.Geometry),
	}, nil
}

// DecodePolyline decodes a Google/ORS-style encoded polyline into a
// sequence of [lat, lng] pairs at 1e-5 degree precision.
func DecodePolyline(encoded string) [][2]float64 {
	var points [][2]float64
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		dLat, nextIndex := decodePolylineValue(encoded, index)
		index = nextIndex
		lat += dLat

		dLng, nextIndex2 := decodePolylineValue(encoded, index)
		index = nextIndex2
		lng += dLng

		points = append(points, [2]float64{float64(lat) / 1e5, float64(lng) / 1e5})
	}
	return points
}

func decodePolylineValue(encoded string, index int) (int, int) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			break
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}
