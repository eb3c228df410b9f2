// README: Handler tests for the chat endpoints.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httptransport "rovis/internal/http"
	"rovis/internal/maps"
	"rovis/internal/modules/agent"
	"rovis/internal/modules/session"
)

// scriptLLM replays canned completions in call order.
type scriptLLM struct {
	replies []string
}

func (s *scriptLLM) Complete(_ context.Context, _ string) (string, error) {
	if len(s.replies) == 0 {
		return `{"response":"script exhausted","thought":""}`, nil
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func buildTestRouter(llm *scriptLLM) http.Handler {
	gin.SetMode(gin.TestMode)
	sessions := session.NewManager(nil)
	tools := agent.NewAdapter(maps.NewMockRouteService(), maps.NewMockPlacesService())
	pipeline := agent.NewPipeline(llm, tools, agent.Options{
		HistoryWindow: 50,
		OffTopicWarn:  5,
		OffTopicStop:  8,
		Location:      time.UTC,
	}, nil)
	svc := agent.NewService(sessions, pipeline, nil)
	return httptransport.NewServer(httptransport.ServerDeps{Agent: svc}).Routes()
}

func doRequest(h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestChat_HappyPath(t *testing.T) {
	llm := &scriptLLM{replies: []string{
		`{"intent":"ONTOPIC","thought":"place search"}`,
		`{"thought":"","location":{"lat":39.7447,"lon":-75.5484},"place_type":"restaurant","radius_miles":null}`,
		`{"intent":"ONTOPIC","thought":"summarize"}`,
		`{"response":"I found a few restaurants in Wilmington for you.","thought":""}`,
	}}
	h := buildTestRouter(llm)

	w := doRequest(h, http.MethodPost, "/api/chat", map[string]any{
		"session_id": "trip-42",
		"message":    "find restaurants near Wilmington",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Reply == "" {
		t.Error("empty reply")
	}

	// The session endpoint exposes the logged function call.
	w = doRequest(h, http.MethodGet, "/api/sessions/trip-42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sess struct {
		SessionID string                    `json:"session_id"`
		Functions []session.FunctionRequest `json:"functions"`
		Turns     []session.Turn            `json:"turns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil {
		t.Fatal(err)
	}
	if sess.SessionID != "trip-42" {
		t.Errorf("session_id = %q", sess.SessionID)
	}
	if len(sess.Functions) != 1 || sess.Functions[0].Name != session.FuncSearchPlace {
		t.Errorf("functions = %+v", sess.Functions)
	}
	if len(sess.Turns) != 3 {
		t.Errorf("want 3 turns, got %d", len(sess.Turns))
	}
}

func TestChat_BadRequests(t *testing.T) {
	h := buildTestRouter(&scriptLLM{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing message", map[string]any{"session_id": "s1"}},
		{"missing session", map[string]any{"message": "hi"}},
		{"blank message", map[string]any{"session_id": "s1", "message": "   "}},
		{"bad session chars", map[string]any{"session_id": "s1/../../etc", "message": "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(h, http.MethodPost, "/api/chat", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}

	// Malformed JSON body.
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := buildTestRouter(&scriptLLM{})
	w := doRequest(h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
