// README: Turn controller: session locking, transcript writes, one reply per message.
package agent

import (
	"context"

	"github.com/rs/zerolog/log"

	"rovis/internal/modules/session"
)

// Auditor mirrors transcript and function-request writes into durable
// storage. *session.Archive satisfies it; nil disables archiving.
type Auditor interface {
	FunctionAuditor
	AppendTurn(ctx context.Context, sessionID string, t session.Turn) error
}

// Service is the public chat surface. It serializes turns per session and
// guarantees exactly one reply per incoming message, whatever happens inside
// the pipeline.
type Service struct {
	sessions *session.Manager
	pipeline *Pipeline
	audit    Auditor
}

func NewService(sessions *session.Manager, pipeline *Pipeline, audit Auditor) *Service {
	return &Service{sessions: sessions, pipeline: pipeline, audit: audit}
}

// Chat processes one user message against the named session and returns the
// assistant's reply. It never returns an empty string: failures collapse into
// a polite apology.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (reply string) {
	sess := s.sessions.Get(ctx, sessionID)

	sess.Lock()
	defer sess.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("component", "agent").Str("session_id", sessionID).Interface("panic", r).Msg("recovered from turn panic")
			reply = replyGenericFailure
		}
	}()

	before := len(sess.Turns)
	sess.AppendTurn(session.RoleUser, message)

	reply = s.pipeline.Run(ctx, sess, message, 0)

	sess.AppendTurn(session.RoleAssistant, reply)

	if s.audit != nil {
		for _, t := range sess.Turns[before:] {
			if err := s.audit.AppendTurn(ctx, sessionID, t); err != nil {
				log.Warn().Str("component", "agent").Str("session_id", sessionID).Err(err).Msg("turn archive failed")
				break
			}
		}
	}
	s.sessions.Persist(ctx, sess)

	return reply
}

// Session exposes a session for read endpoints. Unknown ids yield a fresh
// empty session, same as Chat would.
func (s *Service) Session(ctx context.Context, sessionID string) *session.Session {
	return s.sessions.Get(ctx, sessionID)
}
