// README: Intent & extraction pipeline; the per-turn decision graph.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"rovis/internal/ai"
	"rovis/internal/maps"
	"rovis/internal/modules/session"
)

const (
	// DefaultRadiusMeters is the place-search radius when the user gives none
	// (5 miles).
	DefaultRadiusMeters = 8047
	metersPerMile       = 1609.34

	// maxToolDepth caps re-entry after a completed tool call. A tool result
	// must never trigger another tool call within the same conceptual turn.
	maxToolDepth = 1
)

// Canned replies. Every failure mode resolves to a natural-language sentence.
const (
	replyGenericFailure = "I apologize, but I encountered an error. Please try again."
	replyNotUnderstood  = "I'm sorry, I didn't quite catch that. Could you rephrase your travel question?"
	replyOffTopicStop   = "I'm sorry, but I can only assist with trip planning related topics such as travel itineraries, restaurants, hotels, rest areas, route planning, and geographical locations. Since our conversation has drifted away from those, I'll stop here. Feel free to return when you're planning a trip!"
	warnOffTopicSuffix  = "Please note that I can only help with travel and trip planning; if we stay off those topics much longer I will have to end our conversation."
)

// Guidance notes handed to the final-response stage.
const (
	noteOffTopic  = "The user's message is off-topic for a travel assistant. Politely steer the conversation back to trip planning while briefly acknowledging the message."
	noteClarify   = "The user's request could not be fully understood or was ambiguous. Ask a specific clarifying question that will move the trip planning forward."
	noteGeneral   = "Answer the user's travel question directly from your knowledge, or ask for whatever trip details are still missing."
	noteSummarize = "A background lookup just completed; its results appear in the latest system message of the conversation history. Summarize them for the user in a friendly way and suggest a next step. If the results are empty, say so honestly and offer an alternative."
)

// FunctionAuditor receives best-effort copies of the function-request log.
// *session.Archive satisfies it; nil disables auditing.
type FunctionAuditor interface {
	AppendFunctionRequest(ctx context.Context, sessionID string, req session.FunctionRequest) error
	ResolveFunctionRequest(ctx context.Context, req session.FunctionRequest) error
}

// Options tune the pipeline. Thresholds are configuration, not law.
type Options struct {
	HistoryWindow int
	OffTopicWarn  int
	OffTopicStop  int
	Location      *time.Location
}

// Pipeline runs the staged decision graph for one turn: classify, gate
// off-topic traffic, extract a place search or route request, validate it
// against accumulated trip state, and invoke a tool when everything needed is
// concretely resolved.
type Pipeline struct {
	llm   ai.LLMProvider
	tools *Adapter
	opts  Options
	audit FunctionAuditor

	now func() time.Time
}

func NewPipeline(llm ai.LLMProvider, tools *Adapter, opts Options, audit FunctionAuditor) *Pipeline {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 50
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Pipeline{
		llm:   llm,
		tools: tools,
		opts:  opts,
		audit: audit,
		now:   time.Now,
	}
}

// Run executes the pipeline for one message. depth is 0 for the user's
// message and 1 for the re-entrant pass after a tool call. It always returns
// a non-empty user-facing reply.
func (p *Pipeline) Run(ctx context.Context, s *session.Session, message string, depth int) string {
	// Stage 1: classify.
	out, err := p.llm.Complete(ctx, buildClassifyPrompt(s.Trip, s.RecentHistory(p.opts.HistoryWindow), message))
	if err != nil {
		log.Error().Str("component", "pipeline").Str("stage", "classify").Err(err).Msg("llm call failed")
		return replyGenericFailure
	}
	cls, err := decodeClassify(ExtractJSON(out))
	if err != nil {
		log.Debug().Str("component", "pipeline").Str("stage", "classify").Err(err).Msg("unusable classification")
		return replyNotUnderstood
	}

	// Stage 2: off-topic gate.
	if cls.Intent == IntentOffTopic {
		count := s.IncrementOffTopic()
		log.Info().Str("component", "pipeline").Str("session_id", s.ID).Int("off_topic_count", count).Msg("off-topic message")
		if count > p.opts.OffTopicStop {
			return replyOffTopicStop
		}
		reply := p.respond(ctx, s, message, noteOffTopic, replyOffTopicRedirect())
		if count >= p.opts.OffTopicWarn {
			reply = reply + "\n\n" + warnOffTopicSuffix
		}
		return reply
	}
	s.ResetOffTopic()

	// Re-entrant pass: only summarize the completed tool call, never extract
	// again. This is what bounds the recursion.
	if depth >= maxToolDepth {
		return p.respond(ctx, s, message, noteSummarize, message)
	}

	// Stage 3: place-search extraction.
	out, err = p.llm.Complete(ctx, buildPlaceSearchPrompt(s.Trip, s.RecentHistory(p.opts.HistoryWindow), message))
	if err != nil {
		log.Error().Str("component", "pipeline").Str("stage", "place_extract").Err(err).Msg("llm call failed")
		return replyGenericFailure
	}
	place, err := decodePlaceSearch(ExtractJSON(out))
	if err != nil {
		log.Debug().Str("component", "pipeline").Str("stage", "place_extract").Err(err).Msg("unusable extraction")
		return p.respond(ctx, s, message, noteClarify, replyNotUnderstood)
	}

	if !place.Empty() {
		// Stage 3a: examine the candidate call.
		req, problems := examinePlaceSearch(place)
		if len(problems) > 0 {
			return placeClarification(problems)
		}
		// Stage 3b: invoke search_place.
		return p.invoke(ctx, s, session.FuncSearchPlace, mustMarshal(req), depth)
	}

	// Stage 4: route-info extraction. A thought-only place result is
	// reinterpreted as a possible route request.
	out, err = p.llm.Complete(ctx, buildRoutePrompt(s.Trip, s.RecentHistory(p.opts.HistoryWindow), message))
	if err != nil {
		log.Error().Str("component", "pipeline").Str("stage", "route_extract").Err(err).Msg("llm call failed")
		return replyGenericFailure
	}
	route, err := decodeRouteExtraction(ExtractJSON(out))
	if err != nil {
		log.Debug().Str("component", "pipeline").Str("stage", "route_extract").Err(err).Msg("unusable extraction")
		return p.respond(ctx, s, message, noteClarify, replyNotUnderstood)
	}
	if route.Empty() {
		// Neither a place search nor a route: answer from knowledge or ask.
		return p.respond(ctx, s, message, noteGeneral, replyNotUnderstood)
	}

	s.MergeTripState(route.TripState())

	// Stage 5: examine the route call against accumulated state.
	if missing := missingRouteFields(s.Trip); len(missing) > 0 {
		return routeClarification(missing)
	}

	// Stage 6: invoke route.
	return p.invoke(ctx, s, session.FuncRoute, mustMarshal(p.routeRequest(s.Trip)), depth)
}

// respond runs the final-response stage. fallback is returned when the model
// output cannot be used, keeping the one-reply-per-turn guarantee.
func (p *Pipeline) respond(ctx context.Context, s *session.Session, message, note, fallback string) string {
	out, err := p.llm.Complete(ctx, buildRespondPrompt(s.Trip, s.RecentHistory(p.opts.HistoryWindow), message, note))
	if err != nil {
		log.Error().Str("component", "pipeline").Str("stage", "respond").Err(err).Msg("llm call failed")
		return fallback
	}
	res, err := decodeRespond(ExtractJSON(out))
	if err != nil {
		log.Debug().Str("component", "pipeline").Str("stage", "respond").Err(err).Msg("unusable response")
		return fallback
	}
	return res.Response
}

// invoke logs a FunctionRequest, executes it, attaches the result, and
// re-enters the pipeline once with a synthetic system message so the second
// pass can produce the user-facing summary.
func (p *Pipeline) invoke(ctx context.Context, s *session.Session, name string, params json.RawMessage, depth int) string {
	req := session.FunctionRequest{
		RequestID: uuid.NewString(),
		Name:      name,
		Params:    params,
		CreatedAt: p.now(),
	}
	s.LogFunctionRequest(req)
	if p.audit != nil {
		if err := p.audit.AppendFunctionRequest(ctx, s.ID, req); err != nil {
			log.Warn().Str("component", "pipeline").Err(err).Msg("function audit failed")
		}
	}

	result, short := p.tools.Invoke(ctx, name, params)
	s.ResolveFunctionRequest(req.RequestID, result, short)
	if p.audit != nil {
		resolved := req
		resolved.Result = result
		resolved.ResultShort = short
		now := p.now()
		resolved.ResolvedAt = &now
		if err := p.audit.ResolveFunctionRequest(ctx, resolved); err != nil {
			log.Warn().Str("component", "pipeline").Err(err).Msg("function audit failed")
		}
	}

	sysMsg := fmt.Sprintf("<system_message>Function %s (request %s) completed.\n%s</system_message>", name, req.RequestID, short)
	s.AppendTurn(session.RoleSystem, sysMsg)
	return p.Run(ctx, s, sysMsg, depth+1)
}

func replyOffTopicRedirect() string {
	return "I'm your AI travel assistant bot, so that's a bit outside my lane. Is there a trip I can help you plan?"
}

// examinePlaceSearch validates a non-empty place extraction and builds the
// service request. Returned problems are user-facing phrases for the
// clarification reply.
func examinePlaceSearch(r *PlaceSearchResult) (maps.PlacesRequest, []string) {
	var problems []string
	if !r.Location.Resolved() {
		problems = append(problems, "a specific place or city to search around")
	}
	if !maps.ValidPlaceType(r.PlaceType) {
		problems = append(problems, "whether you're after a restaurant, a rest area, or a hotel")
	}
	if len(problems) > 0 {
		return maps.PlacesRequest{}, problems
	}

	radius := DefaultRadiusMeters
	if r.RadiusMiles != nil && *r.RadiusMiles > 0 {
		radius = int(math.Round(float64(*r.RadiusMiles) * metersPerMile))
	}
	return maps.PlacesRequest{
		Lat:          float64(*r.Location.Lat),
		Lon:          float64(*r.Location.Lon),
		RadiusMeters: radius,
		PlaceType:    r.PlaceType,
	}, nil
}

func placeClarification(problems []string) string {
	return fmt.Sprintf("I'd love to help with that search, but I still need %s. Could you tell me?",
		strings.Join(problems, " and "))
}

// missingRouteFields reports which of the route prerequisites are absent from
// the accumulated trip state: start and end coordinates plus the daily
// driving limit.
func missingRouteFields(trip session.TripState) []string {
	var missing []string
	if !trip.Start.Resolved() {
		missing = append(missing, "the start location")
	}
	if !trip.End.Resolved() {
		missing = append(missing, "the end location")
	}
	if trip.MaxDrivingHoursPerDay == nil {
		missing = append(missing, "how many hours you can drive per day")
	}
	return missing
}

func routeClarification(missing []string) string {
	return fmt.Sprintf("Great, I'm building your route plan. To continue I still need %s.",
		strings.Join(missing, ", and "))
}

// routeRequest assembles the routing call from accumulated trip state. The
// caller has already verified the required fields are present.
func (p *Pipeline) routeRequest(trip session.TripState) maps.RouteRequest {
	req := maps.RouteRequest{
		Start: maps.LatLon{Lat: *trip.Start.Lat, Lon: *trip.Start.Lon},
		End:   maps.LatLon{Lat: *trip.End.Lat, Lon: *trip.End.Lon},
	}
	for _, wp := range trip.Waypoints {
		if wp.Lat != nil && wp.Lon != nil {
			req.Waypoints = append(req.Waypoints, maps.LatLon{Lat: *wp.Lat, Lon: *wp.Lon})
		}
	}
	req.DepartAt = p.departAt(trip.DepartAt)
	return req
}

// departAt returns the trip's departure time, defaulting to the next calendar
// day at 09:00 local when unspecified or unparseable.
func (p *Pipeline) departAt(raw *string) string {
	if raw != nil {
		if t, err := time.Parse(time.RFC3339, *raw); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	now := p.now().In(p.opts.Location)
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 9, 0, 0, 0, p.opts.Location)
	return next.Format(time.RFC3339)
}
