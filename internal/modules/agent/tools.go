// README: Tool invocation adapter; normalizes service calls and failures.
package agent

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"rovis/internal/maps"
	"rovis/internal/modules/session"
)

// Adapter maps validated extractions onto the external services. Every call
// yields a result payload and a condensed human/LLM-readable summary; service
// failures come back as the empty sentinel for that service, never an error,
// so downstream formatting only checks result emptiness.
type Adapter struct {
	routes maps.RouteProvider
	places maps.PlacesProvider
}

func NewAdapter(routes maps.RouteProvider, places maps.PlacesProvider) *Adapter {
	return &Adapter{routes: routes, places: places}
}

// Invoke executes the named function. params must be the marshalled request
// for that function.
func (a *Adapter) Invoke(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, string) {
	switch name {
	case session.FuncSearchPlace:
		return a.searchPlace(ctx, params)
	case session.FuncRoute:
		return a.route(ctx, params)
	default:
		log.Error().Str("component", "tools").Str("name", name).Msg("unknown function")
		return json.RawMessage(`{}`), "That action is not available."
	}
}

func (a *Adapter) searchPlace(ctx context.Context, params json.RawMessage) (json.RawMessage, string) {
	var req maps.PlacesRequest
	if err := json.Unmarshal(params, &req); err != nil {
		log.Error().Str("component", "tools").Err(err).Msg("bad search_place params")
		return mustMarshal(maps.PlacesResponse{}), FormatPlaces(maps.PlacesResponse{})
	}

	resp, err := a.places.SearchPlaces(ctx, req)
	if err != nil {
		log.Error().Str("component", "tools").Err(err).Msg("search_place failed")
		resp = maps.PlacesResponse{}
	}
	return mustMarshal(resp), FormatPlaces(resp)
}

func (a *Adapter) route(ctx context.Context, params json.RawMessage) (json.RawMessage, string) {
	var req maps.RouteRequest
	if err := json.Unmarshal(params, &req); err != nil {
		log.Error().Str("component", "tools").Err(err).Msg("bad route params")
		return mustMarshal(maps.RouteResponse{}), FormatRoute(maps.RouteResponse{})
	}

	resp, err := a.routes.CalculateRoute(ctx, req)
	if err != nil {
		log.Error().Str("component", "tools").Err(err).Msg("route failed")
		resp = maps.RouteResponse{}
	}
	return mustMarshal(resp), FormatRoute(resp)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with an unmarshalable type, which these are not.
		return json.RawMessage(`{}`)
	}
	return data
}
