// README: API gateway; registers HTTP routes and delegates to the agent service.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rovis/internal/http/handlers"
	"rovis/internal/http/middleware"
	"rovis/internal/modules/agent"
)

type ServerDeps struct {
	Agent *agent.Service
}

type Server struct {
	agent *agent.Service
}

func NewServer(deps ServerDeps) *Server {
	return &Server{agent: deps.Agent}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	chat := handlers.NewChatHandler(s.agent)
	r.POST("/api/chat", chat.Chat)
	r.GET("/api/sessions/:id", chat.GetSession)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
