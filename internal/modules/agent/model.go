// README: Typed per-stage extraction results and their validation.
package agent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"rovis/internal/modules/session"
)

// Intent classification values.
const (
	IntentOnTopic  = "ONTOPIC"
	IntentOffTopic = "OFFTOPIC"
)

// Number tolerates the model emitting a numeric field as either a JSON number
// or a quoted numeric string ("39.3186"); model output mixes both freely.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("number %q: %w", s, err)
	}
	*n = Number(v)
	return nil
}

func (n *Number) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

// ClassifyResult is the stage-1 output.
type ClassifyResult struct {
	Intent  string `json:"intent"`
	Thought string `json:"thought"`
}

// Coordinates is a bare lat/lon pair as emitted by the place-search prompt.
type Coordinates struct {
	Lat *Number `json:"lat"`
	Lon *Number `json:"lon"`
}

// Resolved reports whether both coordinates are present.
func (c *Coordinates) Resolved() bool {
	return c != nil && c.Lat != nil && c.Lon != nil
}

// PlaceSearchResult is the stage-3 output. A thought-only result means the
// message was not a place-search request.
type PlaceSearchResult struct {
	Thought     string       `json:"thought"`
	Location    *Coordinates `json:"location"`
	PlaceType   string       `json:"place_type"`
	RadiusMiles *Number      `json:"radius_miles"`
}

// Empty reports whether the result carries no extraction at all.
func (r *PlaceSearchResult) Empty() bool {
	return r.Location == nil && r.PlaceType == "" && r.RadiusMiles == nil
}

// PlaceRef is a named coordinate in a route extraction.
type PlaceRef struct {
	Name string  `json:"name"`
	Lat  *Number `json:"lat"`
	Lon  *Number `json:"lon"`
}

func (p *PlaceRef) toLocation() *session.Location {
	if p == nil {
		return nil
	}
	return &session.Location{Name: p.Name, Lat: p.Lat.float(), Lon: p.Lon.float()}
}

// RouteExtraction is the stage-4 output, mirroring the route prompt's schema.
type RouteExtraction struct {
	Thought               string     `json:"thought"`
	Start                 *PlaceRef  `json:"start"`
	End                   *PlaceRef  `json:"end"`
	EndAtStart            *bool      `json:"endAtStart"`
	Waypoints             []PlaceRef `json:"waypoints"`
	TimeConstraint        *string    `json:"userTimeConstraintDescription"`
	MaxDrivingHoursPerDay *Number    `json:"maxDrivingHoursPerDay"`
	MaxWalkingTime        *Number    `json:"maxWalkingTime"`
	DepartAt              *string    `json:"departAt"`
	ReachBy               *string    `json:"reachBy"`
	Response              string     `json:"response"`
}

// Empty reports whether the extraction holds no usable route information.
func (r *RouteExtraction) Empty() bool {
	return r.Start == nil && r.End == nil && len(r.Waypoints) == 0 &&
		r.MaxDrivingHoursPerDay == nil && r.DepartAt == nil && r.ReachBy == nil &&
		r.TimeConstraint == nil
}

// TripState converts the extraction into a partial TripState for merging.
// Null fields stay null so the merge never clobbers known values.
func (r *RouteExtraction) TripState() session.TripState {
	partial := session.TripState{
		Start:                 r.Start.toLocation(),
		End:                   r.End.toLocation(),
		EndAtStart:            r.EndAtStart,
		TimeConstraint:        r.TimeConstraint,
		MaxDrivingHoursPerDay: r.MaxDrivingHoursPerDay.float(),
		MaxWalkingTimeMinutes: r.MaxWalkingTime.float(),
		DepartAt:              r.DepartAt,
		ReachBy:               r.ReachBy,
	}
	for _, wp := range r.Waypoints {
		if loc := wp.toLocation(); loc.Resolved() {
			partial.Waypoints = append(partial.Waypoints, *loc)
		}
	}
	return partial
}

// RespondResult is the final-response stage output.
type RespondResult struct {
	Response string `json:"response"`
	Thought  string `json:"thought"`
}

func decodeClassify(raw json.RawMessage) (*ClassifyResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("no classify payload")
	}
	var r ClassifyResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode classify: %w", err)
	}
	r.Intent = strings.ToUpper(strings.TrimSpace(r.Intent))
	if r.Intent != IntentOnTopic && r.Intent != IntentOffTopic {
		return nil, fmt.Errorf("classify intent %q out of range", r.Intent)
	}
	return &r, nil
}

func decodePlaceSearch(raw json.RawMessage) (*PlaceSearchResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("no place-search payload")
	}
	var r PlaceSearchResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode place search: %w", err)
	}
	r.PlaceType = strings.ToLower(strings.TrimSpace(r.PlaceType))
	return &r, nil
}

func decodeRouteExtraction(raw json.RawMessage) (*RouteExtraction, error) {
	if raw == nil {
		return nil, fmt.Errorf("no route payload")
	}
	var r RouteExtraction
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode route extraction: %w", err)
	}
	return &r, nil
}

func decodeRespond(raw json.RawMessage) (*RespondResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("no respond payload")
	}
	var r RespondResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode respond: %w", err)
	}
	if strings.TrimSpace(r.Response) == "" {
		return nil, fmt.Errorf("respond payload has empty response")
	}
	return &r, nil
}
