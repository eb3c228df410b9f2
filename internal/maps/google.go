// README: Google-Maps-backed route and places providers.
package maps

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"googlemaps.github.io/maps"
)

// GoogleRouteService implements RouteProvider on the Google Directions API.
type GoogleRouteService struct {
	client *maps.Client
}

// NewGoogleRouteService creates a route provider with the given API key.
func NewGoogleRouteService(apiKey string) (*GoogleRouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleRouteService{client: client}, nil
}

var htmlTag = regexp.MustCompile(`<[^>]+>`)

func latLonParam(p LatLon) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lon)
}

// CalculateRoute requests driving directions and converts them into the
// routing-service wire shape. A request that yields no routes is reported as
// an empty RouteResponse, not an error.
func (s *GoogleRouteService) CalculateRoute(ctx context.Context, req RouteRequest) (RouteResponse, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLonParam(req.Start),
		Destination: latLonParam(req.End),
		Mode:        maps.TravelModeDriving,
	}
	for _, wp := range req.Waypoints {
		r.Waypoints = append(r.Waypoints, latLonParam(wp))
	}
	if req.DepartAt != "" {
		if t, err := time.Parse(time.RFC3339, req.DepartAt); err == nil {
			r.DepartureTime = fmt.Sprintf("%d", t.Unix())
		}
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return RouteResponse{}, fmt.Errorf("directions api: %w", err)
	}
	if len(routes) == 0 {
		return RouteResponse{}, nil
	}

	var out Route
	for _, leg := range routes[0].Legs {
		out.Summary.LengthInMeters += leg.Distance.Meters
		out.Summary.TravelTimeInSeconds += int(leg.Duration.Seconds())
		for _, step := range leg.Steps {
			out.Guidance.InstructionGroups = append(out.Guidance.InstructionGroups, InstructionGroup{
				GroupMessage:        htmlTag.ReplaceAllString(step.HTMLInstructions, ""),
				GroupLengthInMeters: step.Distance.Meters,
			})
		}
	}
	return RouteResponse{Routes: []Route{out}}, nil
}

// GooglePlacesService implements PlacesProvider on the Google Places API.
type GooglePlacesService struct {
	client *maps.Client
}

// NewGooglePlacesService creates a places provider with the given API key.
func NewGooglePlacesService(apiKey string) (*GooglePlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GooglePlacesService{client: client}, nil
}

// SearchPlaces runs a nearby search and converts results to the
// places-service wire shape.
func (s *GooglePlacesService) SearchPlaces(ctx context.Context, req PlacesRequest) (PlacesResponse, error) {
	r := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: req.Lat, Lng: req.Lon},
		Radius:   uint(req.RadiusMeters),
	}
	switch req.PlaceType {
	case PlaceTypeRestaurant:
		r.Type = maps.PlaceTypeRestaurant
	case PlaceTypeHotel:
		r.Type = maps.PlaceTypeLodging
	case PlaceTypeRestArea:
		// No dedicated Google place type; keyword search works adequately.
		r.Keyword = "rest area"
	default:
		return PlacesResponse{}, fmt.Errorf("unsupported place type %q", req.PlaceType)
	}

	resp, err := s.client.NearbySearch(ctx, r)
	if err != nil {
		return PlacesResponse{}, fmt.Errorf("places api: %w", err)
	}

	out := PlacesResponse{}
	for _, result := range resp.Results {
		label := result.FormattedAddress
		if label == "" {
			label = result.Vicinity
		}
		item := PlaceItem{
			Title:    result.Name,
			ID:       result.PlaceID,
			Address:  Address{Label: label},
			Position: LatLon{Lat: result.Geometry.Location.Lat, Lon: result.Geometry.Location.Lng},
		}
		for _, t := range result.Types {
			item.Categories = append(item.Categories, Category{Name: t})
		}
		out.Items = append(out.Items, item)
	}

	log.Debug().
		Str("component", "google_places").
		Str("place_type", req.PlaceType).
		Int("results", len(out.Items)).
		Msg("nearby search complete")
	return out, nil
}
