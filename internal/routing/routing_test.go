package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestORSClientRouteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "test-key" {
			t.Errorf("Authorization header = %q, want test-key", auth)
		}
		var req orsRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Coordinates) != 2 {
			t.Fatalf("expected 2 coordinates, got %d", len(req.Coordinates))
		}

		json.NewEncoder(w).Encode(orsResponse{
			Routes: []struct {
				Summary struct {
					Distance float64 `json:"distance"`
					Duration float64 `json:"duration"`
				} `json:"summary"`
				Geometry string `json:"geometry"`
			}{
				{
					Summary: struct {
						Distance float64 `json:"distance"`
						Duration float64 `json:"duration"`
					}{Distance: 160934.4, Duration: 7200},
					Geometry: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewORSClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)

	leg, err := c.Route(context.Background(), 41.8781, -87.6298, 39.7684, -86.1581)
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if leg.DistanceMiles < 99.9 || leg.DistanceMiles > 100.1 {
		t.Errorf("DistanceMiles = %v, want ~100", leg.DistanceMiles)
	}
	if leg.DurationHours != 2 {
		t.Errorf("DurationHours = %v, want 2", leg.DurationHours)
	}
	if len(leg.Geometry) == 0 {
		t.Error("expected a decoded geometry")
	}
}

func TestORSClientRouteNoRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(orsResponse{})
	}))
	defer srv.Close()

	c := NewORSClient(Config{BaseURL: srv.URL}, nil)

	if _, err := c.Route(context.Background(), 0, 0, 1, 1); err == nil {
		t.Error("expected an error when ORS returns zero routes")
	}
}

func TestORSClientRouteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewORSClient(Config{BaseURL: srv.URL}, nil)

	if _, err := c.Route(context.Background(), 0, 0, 1, 1); err == nil {
		t.Error("expected an error for HTTP 401")
	}
}

func TestDecodePolylineRoundTrips(t *testing.T) {
	// The canonical Google polyline algorithm example from the public
	// encoding spec: (38.5,-120.2) (40.7,-120.95) (43.252,-126.453).
	points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	want := [][2]float64{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}}

	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if diff := p[0] - want[i][0]; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("point %d lat = %v, want %v", i, p[0], want[i][0])
		}
		if diff := p[1] - want[i][1]; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("point %d lng = %v, want %v", i, p[1], want[i][1])
		}
	}
}

func TestDecodePolylineEmpty(t *testing.T) {
	if points := DecodePolyline(""); len(points) != 0 {
		t.Errorf("expected no points for empty string, got %d", len(points))
	}
}
