package fallback_http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func RegisterRoutes(r chi.Router, h FallbackHook, l *zap.Logger) {
	handler := NewFallbackHandler(h, l.With(zap.String("component", "FallbackHTTPHandler")))

	r.Route("/hooks", func(r chi.Router) {
		r.Post("/fallback", handler.BeforeGenerateHandler)
	})
}
