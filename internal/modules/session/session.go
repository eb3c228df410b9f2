package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Session owns the durable state of one conversation: the transcript, the
// accumulated TripState, the function-request log, and the off-topic counter.
// Exactly one turn mutates a session at a time; the turn controller holds the
// lock for the whole turn.
type Session struct {
	mu sync.Mutex

	ID        string            `json:"id"`
	Turns     []Turn            `json:"turns"`
	Trip      TripState         `json:"trip"`
	Functions []FunctionRequest `json:"functions"`
	OffTopic  int               `json:"off_topic_count"`
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{ID: id}
}

// Lock acquires the per-session turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// AppendTurn records one transcript entry.
func (s *Session) AppendTurn(role Role, text string) {
	s.Turns = append(s.Turns, Turn{Role: role, Text: text, At: time.Now()})
}

// RecentHistory renders the most recent limit turns, oldest first, as
// role-tagged text blocks for prompt construction. Empty history yields an
// empty string.
func (s *Session) RecentHistory(limit int) string {
	turns := s.Turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", t.Role, t.Text))
	}
	return sb.String()
}

// MergeTripState folds a partial extraction into the durable trip state.
func (s *Session) MergeTripState(partial TripState) {
	s.Trip.Merge(partial)
}

// LogFunctionRequest appends a tool invocation to the audit log.
func (s *Session) LogFunctionRequest(req FunctionRequest) {
	s.Functions = append(s.Functions, req)
}

// ResolveFunctionRequest attaches a result to a previously logged request.
// An unknown requestId is a warning, not an error.
func (s *Session) ResolveFunctionRequest(requestID string, result []byte, resultShort string) {
	for i := range s.Functions {
		if s.Functions[i].RequestID != requestID {
			continue
		}
		now := time.Now()
		s.Functions[i].Result = result
		s.Functions[i].ResultShort = resultShort
		s.Functions[i].ResolvedAt = &now
		return
	}
	log.Warn().
		Str("component", "session").
		Str("session_id", s.ID).
		Str("request_id", requestID).
		Msg("resolve for unknown function request")
}

// OffTopicCount returns the current consecutive off-topic tally.
func (s *Session) OffTopicCount() int { return s.OffTopic }

// IncrementOffTopic bumps the tally and returns the new value.
func (s *Session) IncrementOffTopic() int {
	s.OffTopic++
	return s.OffTopic
}

// ResetOffTopic clears the tally on any on-topic classification.
func (s *Session) ResetOffTopic() { s.OffTopic = 0 }
