// README: Entry point; loads config, wires providers and services, starts HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"rovis/internal/ai"
	"rovis/internal/config"
	httptransport "rovis/internal/http"
	"rovis/internal/infra"
	"rovis/internal/logging"
	"rovis/internal/maps"
	"rovis/internal/modules/agent"
	"rovis/internal/modules/session"
)

func main() {
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
	if err != nil {
		log.Fatal().Err(err).Msg("gemini init")
	}
	defer llm.Close()

	var routes maps.RouteProvider
	var places maps.PlacesProvider
	switch cfg.Maps.Provider {
	case config.ProviderGoogle:
		if routes, err = maps.NewGoogleRouteService(cfg.Maps.GoogleKey); err != nil {
			log.Fatal().Err(err).Msg("google maps init")
		}
		if places, err = maps.NewGooglePlacesService(cfg.Maps.GoogleKey); err != nil {
			log.Fatal().Err(err).Msg("google maps init")
		}
	default:
		routes = maps.NewMockRouteService()
		places = maps.NewMockPlacesService()
	}

	var snapshots session.Snapshots
	if cfg.Redis.URL != "" {
		redisClient, err := infra.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis init")
		}
		snapshots = session.NewRedisStore(redisClient, cfg.SessionTTL())
	}

	var audit agent.Auditor
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("db init")
		}
		defer dbPool.Close()
		audit = session.NewArchive(dbPool)
	}

	sessions := session.NewManager(snapshots)
	tools := agent.NewAdapter(routes, places)
	pipeline := agent.NewPipeline(llm, tools, agent.Options{
		HistoryWindow: cfg.Agent.HistoryWindow,
		OffTopicWarn:  cfg.Agent.OffTopicWarn,
		OffTopicStop:  cfg.Agent.OffTopicStop,
		Location:      loc,
	}, audit)
	agentSvc := agent.NewService(sessions, pipeline, audit)

	handler := httptransport.NewServer(httptransport.ServerDeps{Agent: agentSvc})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info().Str("component", "main").Str("addr", cfg.HTTP.Addr).Str("provider", cfg.Maps.Provider).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("serve")
	}
}
