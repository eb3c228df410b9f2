// README: Chat handler (conversational trip-planning endpoint).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rovis/internal/modules/agent"
)

type ChatHandler struct {
	agent *agent.Service
}

func NewChatHandler(agentSvc *agent.Service) *ChatHandler {
	return &ChatHandler{agent: agentSvc}
}

type chatReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.SessionID == "" || req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing session_id or message")
		return
	}
	if !isValidSessionID(req.SessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	reply := h.agent.Chat(ctx, req.SessionID, req.Message)
	writeJSON(c, http.StatusOK, map[string]any{"reply": reply})
}

// GetSession handles GET /api/sessions/:id. It exposes the accumulated trip
// state and transcript for debugging and UI hydration.
func (h *ChatHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if !isValidSessionID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}

	sess := h.agent.Session(c.Request.Context(), id)

	sess.Lock()
	defer sess.Unlock()
	writeJSON(c, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"trip":       sess.Trip,
		"turns":      sess.Turns,
		"functions":  sess.Functions,
	})
}
