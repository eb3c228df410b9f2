// README: Fixture-backed route and places providers for local development and tests.
package maps

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

//go:embed fixtures/route-response.json
var routeFixture []byte

//go:embed fixtures/place-response.json
var placeFixture []byte

// MockRouteService returns a canned route regardless of input, mirroring the
// behaviour of the real service's response shape.
type MockRouteService struct{}

func NewMockRouteService() *MockRouteService { return &MockRouteService{} }

func (s *MockRouteService) CalculateRoute(_ context.Context, req RouteRequest) (RouteResponse, error) {
	log.Debug().
		Str("component", "mock_route").
		Float64("start_lat", req.Start.Lat).
		Float64("start_lon", req.Start.Lon).
		Float64("end_lat", req.End.Lat).
		Float64("end_lon", req.End.Lon).
		Int("waypoints", len(req.Waypoints)).
		Str("depart_at", req.DepartAt).
		Msg("calculate route")

	var resp RouteResponse
	if err := json.Unmarshal(routeFixture, &resp); err != nil {
		return RouteResponse{}, fmt.Errorf("route fixture: %w", err)
	}
	return resp, nil
}

// MockPlacesService returns canned place results regardless of input.
type MockPlacesService struct{}

func NewMockPlacesService() *MockPlacesService { return &MockPlacesService{} }

func (s *MockPlacesService) SearchPlaces(_ context.Context, req PlacesRequest) (PlacesResponse, error) {
	log.Debug().
		Str("component", "mock_places").
		Float64("lat", req.Lat).
		Float64("lon", req.Lon).
		Int("radius_m", req.RadiusMeters).
		Str("place_type", req.PlaceType).
		Msg("search places")

	var resp PlacesResponse
	if err := json.Unmarshal(placeFixture, &resp); err != nil {
		return PlacesResponse{}, fmt.Errorf("place fixture: %w", err)
	}
	return resp, nil
}
