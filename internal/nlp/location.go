// README: Location query extraction: place type, explicit place name, near-me.
package nlp

import (
	"regexp"
	"strings"
)

// QueryType selects the downstream search strategy.
type QueryType string

const (
	// QueryNearby anchors the search to the user's current coordinates.
	QueryNearby QueryType = "nearby"
	// QueryText anchors the search to the query text and an optional named place.
	QueryText QueryType = "text"
)

// PlaceType is one category from the closed set understood by the places
// backend.
type PlaceType string

const (
	PlaceRestaurant   PlaceType = "restaurant"
	PlaceCafe         PlaceType = "cafe"
	PlaceGrocery      PlaceType = "grocery_store"
	PlaceShoppingMall PlaceType = "shopping_mall"
	PlaceHospital     PlaceType = "hospital"
	PlaceHotel        PlaceType = "hotel"
	PlaceGasStation   PlaceType = "gas_station"
	PlaceBank         PlaceType = "bank"
	PlacePharmacy     PlaceType = "pharmacy"
	PlacePark         PlaceType = "park"
	PlaceGym          PlaceType = "gym"
	PlaceSchool       PlaceType = "school"
)

// placeTypePatterns maps each category to its substring patterns. Declared
// order is the resolution order: the first category with a match wins.
var placeTypePatterns = []struct {
	Type     PlaceType
	Patterns []string
}{
	{PlaceRestaurant, []string{"restaurant"}},
	{PlaceCafe, []string{"cafe", "coffee shop", "coffee"}},
	{PlaceGrocery, []string{"grocery", "supermarket"}},
	{PlaceShoppingMall, []string{"shopping mall", "mall", "shopping"}},
	{PlaceHospital, []string{"hospital", "clinic"}},
	{PlaceHotel, []string{"hotel", "motel"}},
	{PlaceGasStation, []string{"gas station", "petrol"}},
	{PlaceBank, []string{"bank", "atm"}},
	{PlacePharmacy, []string{"pharmac", "drugstore"}},
	{PlacePark, []string{"park"}},
	{PlaceGym, []string{"gym", "fitness"}},
	{PlaceSchool, []string{"school", "university"}},
}

var (
	nearMePattern = regexp.MustCompile(`(?i)\b(?:near me|nearby|around here|closest|nearest|close to me|around me)\b`)

	// A preposition followed by a capitalized word sequence. The preposition
	// alternatives carry their own case folding so the capture stays
	// case-sensitive.
	placeNamePattern = regexp.MustCompile(`\b(?:[Ii]n|[Nn]ear|[Aa]t|[Aa]round)\s+([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*)`)

	// Free-text qualifier between a search verb and a category-ish word, used
	// only when no closed-set place type matched.
	keywordPattern = regexp.MustCompile(`(?i)\b(?:find|search|looking for|show me)\s+(.+?)\s+(?:restaurants?|cafes?|shops?|stores?|near|in)\b`)
)

// ParsedLocationQuery is the structured descriptor for one places request.
// Location and UseCurrentLocation are mutually exclusive.
type ParsedLocationQuery struct {
	Type  QueryType
	Query string
	// PlaceType is empty when no closed-set category matched.
	PlaceType PlaceType
	// Keyword is a free-text category phrase, set only when PlaceType is empty.
	Keyword string
	// Location is an explicit place/city name, set only when
	// UseCurrentLocation is false.
	Location           string
	UseCurrentLocation bool
	// Valid is always true in the current design; entry is gated by the
	// location-intent classifier upstream.
	Valid bool
}

// ParseLocationQuery builds the query descriptor for an utterance the
// location classifier already accepted. Near-me detection runs first so
// place-name extraction can be skipped when current location is implied.
func ParseLocationQuery(text string) ParsedLocationQuery {
	q := ParsedLocationQuery{Query: text, Valid: true}

	q.UseCurrentLocation = nearMePattern.MatchString(text)

	q.PlaceType = resolvePlaceType(text)

	if !q.UseCurrentLocation {
		if m := placeNamePattern.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			// Guard against "me"/"here" slipping past the near-me check.
			if low := strings.ToLower(name); low != "me" && low != "here" {
				q.Location = name
			}
		}
	}

	if q.PlaceType == "" {
		if m := keywordPattern.FindStringSubmatch(text); m != nil {
			q.Keyword = strings.TrimSpace(m[1])
		}
	}

	if q.UseCurrentLocation {
		q.Type = QueryNearby
	} else {
		q.Type = QueryText
	}
	return q
}

// resolvePlaceType returns the first category whose pattern list matches, or
// the empty PlaceType.
func resolvePlaceType(text string) PlaceType {
	lower := strings.ToLower(text)
	for _, entry := range placeTypePatterns {
		for _, pattern := range entry.Patterns {
			if strings.Contains(lower, pattern) {
				return entry.Type
			}
		}
	}
	return ""
}
