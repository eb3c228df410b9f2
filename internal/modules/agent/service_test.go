package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rovis/internal/modules/session"
)

// memSnapshots is an in-memory stand-in for the Redis snapshot store.
type memSnapshots struct {
	saved map[string][]byte
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{saved: make(map[string][]byte)}
}

func (m *memSnapshots) Save(_ context.Context, s *session.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.saved[s.ID] = b
	return nil
}

func (m *memSnapshots) Load(_ context.Context, id string) (*session.Session, error) {
	b, ok := m.saved[id]
	if !ok {
		return nil, nil
	}
	var s session.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// recAuditor records everything the service and pipeline archive.
type recAuditor struct {
	turns    []session.Turn
	appended []session.FunctionRequest
	resolved []session.FunctionRequest
	err      error
}

func (r *recAuditor) AppendTurn(_ context.Context, _ string, t session.Turn) error {
	if r.err != nil {
		return r.err
	}
	r.turns = append(r.turns, t)
	return nil
}

func (r *recAuditor) AppendFunctionRequest(_ context.Context, _ string, req session.FunctionRequest) error {
	if r.err != nil {
		return r.err
	}
	r.appended = append(r.appended, req)
	return nil
}

func (r *recAuditor) ResolveFunctionRequest(_ context.Context, req session.FunctionRequest) error {
	if r.err != nil {
		return r.err
	}
	r.resolved = append(r.resolved, req)
	return nil
}

type panicLLM struct{}

func (panicLLM) Complete(context.Context, string) (string, error) {
	panic("model client blew up")
}

func newTestService(llm interface {
	Complete(context.Context, string) (string, error)
}, audit Auditor, snaps session.Snapshots) (*Service, *session.Manager) {
	mgr := session.NewManager(snaps)
	p := NewPipeline(llm, NewAdapter(&fakeRoutes{}, &fakePlaces{}), Options{
		HistoryWindow: 50,
		OffTopicWarn:  5,
		OffTopicStop:  8,
		Location:      time.UTC,
	}, audit)
	p.now = func() time.Time { return testNow }
	return NewService(mgr, p, audit), mgr
}

func TestChat_OneReplyAndTranscript(t *testing.T) {
	llm := &fakeLLM{replies: []string{onTopicJSON, thoughtOnly, emptyRoute, respondAnswer}}
	audit := &recAuditor{}
	svc, mgr := newTestService(llm, audit, nil)

	reply := svc.Chat(context.Background(), "s1", "when should I visit the Grand Canyon?")

	require.Equal(t, "The Grand Canyon is best in spring.", reply)

	sess := mgr.Get(context.Background(), "s1")
	require.Len(t, sess.Turns, 2)
	assert.Equal(t, session.RoleUser, sess.Turns[0].Role)
	assert.Equal(t, session.RoleAssistant, sess.Turns[1].Role)
	assert.Equal(t, reply, sess.Turns[1].Text)

	require.Len(t, audit.turns, 2)
}

func TestChat_ToolTurnArchivesEverything(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		onTopicJSON,
		`{"thought":"","location":{"lat":10,"lon":10},"place_type":"restaurant","radius_miles":null}`,
		onTopicJSON,
		respondOK,
	}}
	audit := &recAuditor{}
	svc, mgr := newTestService(llm, audit, nil)

	reply := svc.Chat(context.Background(), "s1", "restaurants near here")

	require.Equal(t, "Here is what I found for you.", reply)

	// user, tool-result system message, assistant
	sess := mgr.Get(context.Background(), "s1")
	require.Len(t, sess.Turns, 3)
	assert.Equal(t, session.RoleSystem, sess.Turns[1].Role)

	require.Len(t, audit.turns, 3)
	require.Len(t, audit.appended, 1)
	require.Len(t, audit.resolved, 1)
	assert.Equal(t, audit.appended[0].RequestID, audit.resolved[0].RequestID)
	assert.NotNil(t, audit.resolved[0].ResolvedAt)
}

func TestChat_PanicBecomesApology(t *testing.T) {
	svc, mgr := newTestService(panicLLM{}, nil, nil)

	reply := svc.Chat(context.Background(), "s1", "hello")

	assert.Equal(t, replyGenericFailure, reply)
	// The user turn survives even when the pipeline dies.
	sess := mgr.Get(context.Background(), "s1")
	require.NotEmpty(t, sess.Turns)
	assert.Equal(t, session.RoleUser, sess.Turns[0].Role)
}

func TestChat_ArchiveFailureDoesNotFailTurn(t *testing.T) {
	llm := &fakeLLM{replies: []string{onTopicJSON, thoughtOnly, emptyRoute, respondAnswer}}
	audit := &recAuditor{err: fmt.Errorf("pg down")}
	svc, _ := newTestService(llm, audit, nil)

	reply := svc.Chat(context.Background(), "s1", "best time for Yellowstone?")
	assert.Equal(t, "The Grand Canyon is best in spring.", reply)
}

func TestChat_SnapshotRoundTrip(t *testing.T) {
	snaps := newMemSnapshots()
	llm := &fakeLLM{replies: []string{onTopicJSON, thoughtOnly,
		`{"thought":"","start":{"name":"NYC","lat":40.7,"lon":-74.0}}`,
	}}
	svc, _ := newTestService(llm, nil, snaps)
	svc.Chat(context.Background(), "s1", "starting from New York")

	require.Contains(t, snaps.saved, "s1")

	// A fresh manager restores trip state from the snapshot.
	llm2 := &fakeLLM{replies: []string{onTopicJSON, thoughtOnly, emptyRoute, respondAnswer}}
	svc2, mgr2 := newTestService(llm2, nil, snaps)
	svc2.Chat(context.Background(), "s1", "thanks")

	sess := mgr2.Get(context.Background(), "s1")
	require.NotNil(t, sess.Trip.Start)
	assert.Equal(t, "NYC", sess.Trip.Start.Name)
}
