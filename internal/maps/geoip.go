// README: IP-based geolocation fallback via ip-api.com.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGeoIPEndpoint = "http://ip-api.com/json"

// IPLocation is the coarse position derived from the caller's IP address.
type IPLocation struct {
	Location Point  `json:"location"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// GeoIPService resolves an approximate location from the machine's public IP.
// Used as the fallback when no foreground geolocation fix is available.
type GeoIPService struct {
	endpoint   string
	httpClient *http.Client
}

// NewGeoIPService creates a GeoIPService against the default endpoint.
func NewGeoIPService() *GeoIPService {
	return &GeoIPService{
		endpoint:   defaultGeoIPEndpoint,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup queries the IP geolocation endpoint.
func (s *GeoIPService) Lookup(ctx context.Context) (IPLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return IPLocation{}, fmt.Errorf("geoip: build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return IPLocation{}, fmt.Errorf("geoip: lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return IPLocation{}, fmt.Errorf("geoip: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Status  string  `json:"status"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		City    string  `json:"city"`
		Country string  `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return IPLocation{}, fmt.Errorf("geoip: decode response: %w", err)
	}
	if body.Status != "success" {
		return IPLocation{}, fmt.Errorf("geoip: lookup status %q", body.Status)
	}

	return IPLocation{
		Location: Point{Lat: body.Lat, Lng: body.Lon},
		City:     body.City,
		Country:  body.Country,
	}, nil
}
