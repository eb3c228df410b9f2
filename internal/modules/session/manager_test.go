package session

import (
	"context"
	"fmt"
	"testing"
)

type fakeSnapshots struct {
	store   map[string]*Session
	loadErr error
}

func (f *fakeSnapshots) Save(_ context.Context, s *Session) error {
	f.store[s.ID] = s
	return nil
}

func (f *fakeSnapshots) Load(_ context.Context, id string) (*Session, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.store[id], nil
}

func TestManagerGet_SameInstance(t *testing.T) {
	m := NewManager(nil)
	a := m.Get(context.Background(), "s1")
	b := m.Get(context.Background(), "s1")
	if a != b {
		t.Error("same id must return the same live session")
	}
	if m.Get(context.Background(), "s2") == a {
		t.Error("distinct ids must not share a session")
	}
}

func TestManagerGet_RestoresFromSnapshot(t *testing.T) {
	snap := New("s1")
	snap.AppendTurn(RoleUser, "earlier message")
	f := &fakeSnapshots{store: map[string]*Session{"s1": snap}}

	m := NewManager(f)
	s := m.Get(context.Background(), "s1")
	if len(s.Turns) != 1 || s.Turns[0].Text != "earlier message" {
		t.Errorf("snapshot not restored: %+v", s.Turns)
	}
}

func TestManagerGet_SnapshotFailureStartsFresh(t *testing.T) {
	f := &fakeSnapshots{store: map[string]*Session{}, loadErr: fmt.Errorf("redis down")}
	m := NewManager(f)
	s := m.Get(context.Background(), "s1")
	if s == nil || len(s.Turns) != 0 {
		t.Errorf("expected fresh session, got %+v", s)
	}
}

func TestManagerPersist(t *testing.T) {
	f := &fakeSnapshots{store: map[string]*Session{}}
	m := NewManager(f)
	s := m.Get(context.Background(), "s1")
	s.AppendTurn(RoleUser, "hello")
	m.Persist(context.Background(), s)
	if _, ok := f.store["s1"]; !ok {
		t.Error("persist did not reach the snapshot store")
	}
}
