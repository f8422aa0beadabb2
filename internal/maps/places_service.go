package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the normalized view of one third-party search result.
type Place struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Location Point   `json:"location"`
	Category string  `json:"category,omitempty"`
	Rating   float32 `json:"rating,omitempty"`
	// DistanceMeters is the great-circle distance from the search origin,
	// 0 when no origin was known.
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

// NearbyRequest is a search anchored to coordinates with a radius.
type NearbyRequest struct {
	Location     Point
	RadiusMeters uint
	// PlaceType is a closed-set category understood by the backend.
	PlaceType string
	// Keyword is a free-text qualifier when no closed-set category applies.
	Keyword string
}

// TextRequest is a search anchored to the query text and an optional origin
// used for biasing and distance annotation.
type TextRequest struct {
	Query    string
	Location *Point
}

const maxPlaceResults = 5

// PlacesService handles interactions with the Google Places and Geocoding
// APIs. Distance filtering and sorting happen client-side: nearby responses
// are not guaranteed to respect the radius, so haversine post-processing is
// required.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// SearchNearby finds places of the requested category around the origin,
// sorted by distance and capped.
func (s *PlacesService) SearchNearby(ctx context.Context, req NearbyRequest) ([]Place, error) {
	r := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: req.Location.Lat, Lng: req.Location.Lng},
		Radius:   req.RadiusMeters,
		Keyword:  req.Keyword,
	}
	if req.PlaceType != "" {
		r.Type = maps.PlaceType(req.PlaceType)
	}

	resp, err := s.client.NearbySearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	places := fromSearchResults(resp.Results)
	annotateDistance(places, req.Location)
	places = filterByRadius(places, float64(req.RadiusMeters))
	sortByDistance(places, func(p Place) float64 { return p.DistanceMeters })
	return capResults(places), nil
}

// SearchText runs a free-text search, biased to the origin when one is known.
func (s *PlacesService) SearchText(ctx context.Context, req TextRequest) ([]Place, error) {
	r := &maps.TextSearchRequest{Query: req.Query}
	if req.Location != nil {
		r.Location = &maps.LatLng{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	places := fromSearchResults(resp.Results)
	if req.Location != nil {
		annotateDistance(places, *req.Location)
		sortByDistance(places, func(p Place) float64 { return p.DistanceMeters })
	}
	return capResults(places), nil
}

// Geocode resolves a place or city name to coordinates.
func (s *PlacesService) Geocode(ctx context.Context, address string) (Point, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return Point{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return Point{}, fmt.Errorf("no geocoding result for %q", address)
	}
	loc := results[0].Geometry.Location
	return Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func fromSearchResults(results []maps.PlacesSearchResult) []Place {
	places := make([]Place, 0, len(results))
	for _, r := range results {
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}
		category := ""
		if len(r.Types) > 0 {
			category = r.Types[0]
		}
		places = append(places, Place{
			Name:     r.Name,
			Address:  address,
			Location: Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Category: category,
			Rating:   r.Rating,
		})
	}
	return places
}

func annotateDistance(places []Place, origin Point) {
	for i := range places {
		places[i].DistanceMeters = haversineMeters(origin, places[i].Location)
	}
}

func filterByRadius(places []Place, radiusMeters float64) []Place {
	if radiusMeters <= 0 {
		return places
	}
	kept := places[:0]
	for _, p := range places {
		if p.DistanceMeters <= radiusMeters {
			kept = append(kept, p)
		}
	}
	return kept
}

func capResults(places []Place) []Place {
	if len(places) > maxPlaceResults {
		return places[:maxPlaceResults]
	}
	return places
}
