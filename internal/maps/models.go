// README: Wire types for the routing and places-search services.
package maps

import "context"

// Place type values accepted by the places service.
const (
	PlaceTypeRestaurant = "restaurant"
	PlaceTypeRestArea   = "rest_area"
	PlaceTypeHotel      = "hotel"
)

// ValidPlaceType reports whether t is one of the three supported place types.
func ValidPlaceType(t string) bool {
	switch t {
	case PlaceTypeRestaurant, PlaceTypeRestArea, PlaceTypeHotel:
		return true
	}
	return false
}

// LatLon is a coordinate pair in decimal degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteRequest describes one routing call.
type RouteRequest struct {
	Start     LatLon   `json:"start"`
	End       LatLon   `json:"end"`
	Waypoints []LatLon `json:"waypoints,omitempty"`
	// DepartAt is an RFC3339 timestamp; empty means "now".
	DepartAt string `json:"departAt,omitempty"`
}

// RouteSummary carries the aggregate distance and travel time of a route.
type RouteSummary struct {
	LengthInMeters      int `json:"lengthInMeters"`
	TravelTimeInSeconds int `json:"travelTimeInSeconds"`
}

// InstructionGroup is one human-readable guidance segment.
type InstructionGroup struct {
	GroupMessage        string `json:"groupMessage"`
	GroupLengthInMeters int    `json:"groupLengthInMeters"`
}

// Guidance is the turn-by-turn breakdown of a route.
type Guidance struct {
	InstructionGroups []InstructionGroup `json:"instructionGroups"`
}

// Route is one calculated route alternative.
type Route struct {
	Summary  RouteSummary `json:"summary"`
	Guidance Guidance     `json:"guidance"`
}

// RouteResponse is the routing-service reply. An empty Routes slice signals
// that no route was found; it is the error sentinel for this service.
type RouteResponse struct {
	Routes []Route `json:"routes"`
}

// PlacesRequest describes one place-search call.
type PlacesRequest struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	RadiusMeters int     `json:"radius_meters"`
	PlaceType    string  `json:"place_type"`
}

// Address is the display address of a place.
type Address struct {
	Label string `json:"label"`
}

// Category is one classification tag on a place.
type Category struct {
	Name string `json:"name"`
}

// PlaceItem is a single place record.
type PlaceItem struct {
	Title      string     `json:"title"`
	ID         string     `json:"id"`
	Address    Address    `json:"address"`
	Position   LatLon     `json:"position"`
	Categories []Category `json:"categories,omitempty"`
}

// PlacesResponse is the places-service reply. An empty Items slice signals
// that nothing was found; it is the error sentinel for this service.
type PlacesResponse struct {
	Items []PlaceItem `json:"items"`
}

// RouteProvider calculates routes between coordinates.
type RouteProvider interface {
	CalculateRoute(ctx context.Context, req RouteRequest) (RouteResponse, error)
}

// PlacesProvider searches for places around a coordinate.
type PlacesProvider interface {
	SearchPlaces(ctx context.Context, req PlacesRequest) (PlacesResponse, error)
}
