package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wadjakorntonsri/selectify-server/pkg/adapters/handler"
	"github.com/wadjakorntonsri/selectify-server/pkg/adapters/repository"
	"github.com/wadjakorntonsri/selectify-server/pkg/config"
	"github.com/wadjakorntonsri/selectify-server/pkg/core/services"
	"github.com/wadjakorntonsri/selectify-server/pkg/observability"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	observability.InitLogger("selectify-server", cfg.LogLevel, false)

	// The connection is reused across warm invocations and never closed
	store, err := repository.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}

	queryService := services.NewQueryService(store)
	recommendationService := services.NewRecommendationService(store)
	mux = handler.NewRouter(cfg, queryService, recommendationService, store)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
