// README: Conversation session model: transcript, trip state, function-request log.
package session

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one transcript entry. Immutable once appended.
type Turn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Location is a named coordinate. Lat/Lon are pointers so an unknown
// coordinate is distinguishable from zero.
type Location struct {
	Name string   `json:"name,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// Resolved reports whether both coordinates are known.
func (l *Location) Resolved() bool {
	return l != nil && l.Lat != nil && l.Lon != nil
}

// TripState is the durable, cross-turn accumulation of trip-planning facts.
// All fields are optional; merging is key-by-key and a null never replaces a
// previously known value.
type TripState struct {
	Start                 *Location  `json:"start,omitempty"`
	End                   *Location  `json:"end,omitempty"`
	EndAtStart            *bool      `json:"endAtStart,omitempty"`
	Waypoints             []Location `json:"waypoints,omitempty"`
	TimeConstraint        *string    `json:"userTimeConstraintDescription,omitempty"`
	MaxDrivingHoursPerDay *float64   `json:"maxDrivingHoursPerDay,omitempty"`
	MaxWalkingTimeMinutes *float64   `json:"maxWalkingTime,omitempty"`
	DepartAt              *string    `json:"departAt,omitempty"`
	ReachBy               *string    `json:"reachBy,omitempty"`
}

// Function names accepted by the tool adapter.
const (
	FuncSearchPlace = "search_place"
	FuncRoute       = "route"
)

// FunctionRequest is one logged tool invocation. It is appended when the
// pipeline decides a call is warranted and mutated exactly once when the
// result arrives. RequestID is the sole correlation key.
type FunctionRequest struct {
	RequestID   string          `json:"requestId"`
	Name        string          `json:"name"`
	Params      json.RawMessage `json:"params"`
	Result      json.RawMessage `json:"result,omitempty"`
	ResultShort string          `json:"result_short,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// Resolved reports whether a result has been attached.
func (r *FunctionRequest) Resolved() bool { return r.ResolvedAt != nil }

func mergeLocation(dst *Location, src *Location) *Location {
	if src == nil {
		return dst
	}
	if dst == nil {
		dst = &Location{}
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Lat != nil {
		dst.Lat = src.Lat
	}
	if src.Lon != nil {
		dst.Lon = src.Lon
	}
	return dst
}

// Merge folds the non-null fields of partial into t. Waypoints are replaced
// as an ordered whole when the partial carries any; a nil slice keeps the
// current ones. Merging the same partial twice is a no-op the second time.
func (t *TripState) Merge(partial TripState) {
	t.Start = mergeLocation(t.Start, partial.Start)
	t.End = mergeLocation(t.End, partial.End)
	if partial.EndAtStart != nil {
		t.EndAtStart = partial.EndAtStart
	}
	if partial.Waypoints != nil {
		t.Waypoints = append([]Location(nil), partial.Waypoints...)
	}
	if partial.TimeConstraint != nil {
		t.TimeConstraint = partial.TimeConstraint
	}
	if partial.MaxDrivingHoursPerDay != nil {
		t.MaxDrivingHoursPerDay = partial.MaxDrivingHoursPerDay
	}
	if partial.MaxWalkingTimeMinutes != nil {
		t.MaxWalkingTimeMinutes = partial.MaxWalkingTimeMinutes
	}
	if partial.DepartAt != nil {
		t.DepartAt = partial.DepartAt
	}
	if partial.ReachBy != nil {
		t.ReachBy = partial.ReachBy
	}
}
