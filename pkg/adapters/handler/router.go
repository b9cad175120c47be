package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wadjakorntonsri/selectify-server/pkg/config"
	"github.com/wadjakorntonsri/selectify-server/pkg/observability"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

// Pinger reports store liveness
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, queryService ports.QueryService, recService ports.RecommendationService, store Pinger) http.Handler {
	// Initialize Handlers
	qh := NewQueryHandler(queryService)
	rh := NewRecommendationHandler(recService)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Setup Router
	mux := http.NewServeMux()
	route := func(pattern string, h http.Handler) {
		mux.Handle(pattern, instrument(pattern, h))
	}

	route("GET /{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "Hello World")
	}))
	route("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("store ping failed")
			respondJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "store unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Query Routes
	route("GET /all-queries", handle(qh.ListAll))
	route("POST /add-query", handle(qh.Create))
	route("GET /my-queries/{email}", handle(qh.ListMine))
	route("GET /query/{id}", handle(qh.Get))
	route("DELETE /query/{id}", handle(qh.Delete))
	route("PATCH /query/{id}", handle(qh.Update))
	route("PATCH /query/{id}/increment-recommendations", handle(qh.IncrementRecommendations))
	route("PATCH /query/{id}/decrement-recommendations", handle(qh.DecrementRecommendations))

	// Recommendation Routes
	route("POST /recommendations", handle(rh.Create))
	route("GET /recommendations/{id}", handle(rh.ListByQuery))
	route("GET /my-recommendations/{email}", handle(rh.ListMine))
	route("GET /recommendations-for-my-queries/{email}", handle(rh.ListForMyQueries))
	route("DELETE /recommendations/{id}", handle(rh.Delete))

	return mw.Chain(mux)
}
