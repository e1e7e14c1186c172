package handlers

import (
	"errors"
	"net/http"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	Auth            *middleware.Authenticator
	SettlementToken string
	// Idempotency is optional; without it retried POSTs are not deduplicated.
	Idempotency    middleware.IdempotencyStore
	WebSocket      http.Handler
	AllowedOrigins []string
	RateLimitRPS   int
	Logger         *zap.Logger
}

// NewRouter mounts the API handler with the global middleware chain.
func NewRouter(handler api.ServerInterface, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	r.Use(middleware.Metrics)
	r.Use(corsHandler(opts.AllowedOrigins))
	if opts.RateLimitRPS > 0 {
		r.Use(middleware.RateLimiter(opts.RateLimitRPS))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	if opts.WebSocket != nil {
		r.Handle("/ws", opts.WebSocket)
	}

	// The last middleware wraps outermost, so authentication runs first and
	// idempotency sees the caller's account.
	middlewares := []api.MiddlewareFunc{}
	if opts.Idempotency != nil {
		middlewares = append(middlewares, middleware.Idempotency(opts.Idempotency, opts.Logger))
	}
	middlewares = append(middlewares, middleware.SettlementToken(opts.SettlementToken), opts.Auth.Middleware)

	api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter:       r,
		Middlewares:      middlewares,
		ErrorHandlerFunc: paramError,
	})
	return r
}

func paramError(w http.ResponseWriter, r *http.Request, err error) {
	var required *api.RequiredHeaderError
	if errors.As(err, &required) && required.ParamName == "X-Signature" {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("webhooks/missing-signature"), "", err.Error())
		return
	}
	problem.Write(w, r, http.StatusBadRequest, problem.Type("request/invalid-parameter"), "", err.Error())
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader, middleware.SettlementTokenHeader},
		ExposedHeaders:   []string{"X-Request-Id", "X-Idempotent-Replay"},
		AllowCredentials: false,
	}).Handler
}
