package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/rewardwheel/internal/handler"
	"github.com/osse101/rewardwheel/internal/metrics"
	"github.com/osse101/rewardwheel/internal/sse"
)

// NewRouter builds the chi router. Middleware runs in the order it is added,
// outermost first, so CORS preflights never reach auth.
func NewRouter(opts Options) chi.Router {
	detector := NewSuspiciousActivityDetector()

	r := chi.NewRouter()
	r.Use(
		cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", HeaderAPIKey, HeaderAuthorization, sse.HeaderLastEventID},
			ExposedHeaders: []string{HeaderRequestID},
			MaxAge:         CORSMaxAgeSeconds,
		}),
		SecurityHeadersMiddleware(),
		AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector),
		SecurityLoggingMiddleware(opts.TrustedProxies, detector),
		RequestSizeLimitMiddleware(MaxRequestBodyBytes),
		metrics.Middleware,
		requestLogger,
	)

	// public
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Ready...))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/wheel", func(r chi.Router) {
			r.Get("/table", opts.Wheel.HandleGetTable)
			r.Post("/spin", opts.Wheel.HandleSpin)
			r.Post("/reset", opts.Wheel.HandleResetBudget)
			r.Get("/session", opts.Wheel.HandleGetSession)
			r.Post("/close", opts.Wheel.HandleCloseSession)
		})
		if opts.Hub != nil {
			r.Get("/events", sse.Handler(opts.Hub))
		}
	})

	return r
}
