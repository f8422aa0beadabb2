package maps

import (
	"math"
	"testing"
)

func TestHaversineMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		a, b       Point
		wantMeters float64
		tolerance  float64
	}{
		{
			name:       "same point",
			a:          Point{Lat: 48.8566, Lng: 2.3522},
			b:          Point{Lat: 48.8566, Lng: 2.3522},
			wantMeters: 0,
			tolerance:  1,
		},
		{
			name:       "Eiffel Tower to Louvre (~3.2km)",
			a:          Point{Lat: 48.8584, Lng: 2.2945},
			b:          Point{Lat: 48.8606, Lng: 2.3376},
			wantMeters: 3200,
			tolerance:  300,
		},
		{
			name:       "New York to Los Angeles (~3944km)",
			a:          Point{Lat: 40.7128, Lng: -74.0060},
			b:          Point{Lat: 34.0522, Lng: -118.2437},
			wantMeters: 3944000,
			tolerance:  50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineMeters(tt.a, tt.b)
			if math.Abs(got-tt.wantMeters) > tt.tolerance {
				t.Errorf("haversineMeters() = %f, want %f (±%f)", got, tt.wantMeters, tt.tolerance)
			}
		})
	}
}

func TestHaversineMeters_Symmetry(t *testing.T) {
	a := Point{Lat: 25.0, Lng: 121.0}
	b := Point{Lat: 26.0, Lng: 122.0}
	d1 := haversineMeters(a, b)
	d2 := haversineMeters(b, a)
	if math.Abs(d1-d2) > 0.001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestSortByDistance_Places(t *testing.T) {
	places := []Place{
		{Name: "c", DistanceMeters: 500},
		{Name: "a", DistanceMeters: 10},
		{Name: "b", DistanceMeters: 120},
	}

	sortByDistance(places, func(p Place) float64 { return p.DistanceMeters })

	if places[0].Name != "a" || places[1].Name != "b" || places[2].Name != "c" {
		t.Errorf("unexpected sort order: %v", places)
	}
}

func TestFilterByRadius(t *testing.T) {
	places := []Place{
		{Name: "in", DistanceMeters: 400},
		{Name: "out", DistanceMeters: 6000},
		{Name: "edge", DistanceMeters: 5000},
	}

	kept := filterByRadius(places, 5000)
	if len(kept) != 2 {
		t.Fatalf("kept %d places, want 2", len(kept))
	}
	for _, p := range kept {
		if p.Name == "out" {
			t.Error("place outside radius survived the filter")
		}
	}

	// zero radius disables filtering
	all := filterByRadius([]Place{{DistanceMeters: 1e9}}, 0)
	if len(all) != 1 {
		t.Error("zero radius should keep everything")
	}
}

func TestCapResults(t *testing.T) {
	places := make([]Place, maxPlaceResults+3)
	if got := capResults(places); len(got) != maxPlaceResults {
		t.Errorf("capped to %d, want %d", len(got), maxPlaceResults)
	}
	short := make([]Place, 2)
	if got := capResults(short); len(got) != 2 {
		t.Errorf("short slice capped to %d, want 2", len(got))
	}
}
