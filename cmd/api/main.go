package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_assistant/internal/adapters/elastic"
	server "hotel_assistant/internal/adapters/http_server"
	"hotel_assistant/internal/adapters/observability"
	"hotel_assistant/internal/adapters/openai"
	redisad "hotel_assistant/internal/adapters/redis"
	"hotel_assistant/internal/app"
	"hotel_assistant/internal/domain"
	"hotel_assistant/internal/search"
	"hotel_assistant/internal/shared"
	"hotel_assistant/internal/storage/memory"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	embedder, err := openai.New(cfg.OpenAIBase, cfg.OpenAIKey, cfg.EmbedModel, cfg.EmbedTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("embedding client init failed")
	}

	store, err := elastic.New(cfg.ESURL, cfg.ESIndex, cfg.ESUser, cfg.ESPass, embedder, cfg.ESRPS, cfg.ESTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("store client init failed")
	}
	gateway := search.NewGateway(store)

	var sessions domain.SessionStore
	switch cfg.SessionBackend {
	case "redis":
		sessions = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("session store: redis")
	default:
		sessions = memory.New()
		log.Info().Msg("session store: in-memory")
	}

	chat := app.NewConversationService(sessions, gateway, cfg.SearchTopK)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Chat: chat, Gateway: gateway})

	log.Info().Str("addr", cfg.HTTPAddr).Str("index", cfg.ESIndex).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
