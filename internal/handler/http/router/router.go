package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	fallback_http "cardbot/internal/handler/http/fallback"
	tools_http "cardbot/internal/handler/http/tools"
	"cardbot/internal/session"
)

type Dependencies struct {
	Tools          tools_http.ToolService
	Sessions       session.Store
	Fallback       fallback_http.FallbackHook
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(deps Dependencies, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	// Browser access is off unless origins are configured.
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", tools_http.HeaderSessionID, tools_http.HeaderCorrelationID},
			ExposedHeaders: []string{tools_http.HeaderCorrelationID},
			MaxAge:         300,
		}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Card bot tool service is healthy!"))
		})
	})

	tools_http.RegisterRoutes(r, deps.Tools, deps.Sessions, logger)
	fallback_http.RegisterRoutes(r, deps.Fallback, logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderJSONError(w, "Not Found", http.StatusNotFound)
	})

	return r
}

func renderJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"error": "%s", "code": %d}`, message, statusCode)
}
