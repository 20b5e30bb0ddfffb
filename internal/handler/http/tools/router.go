package tools_http

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cardbot/internal/session"
)

func RegisterRoutes(r chi.Router, s ToolService, sessions session.Store, l *zap.Logger) {
	handler := NewToolHandler(s, sessions, l.With(zap.String("component", "ToolHTTPHandler")))

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", handler.ListToolsHandler)
		r.Post("/{name}", handler.CallToolHandler)
	})
}
