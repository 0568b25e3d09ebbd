// Package main is the entry point of the application
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tecu23/probe-server/pkg/metrics"
	"github.com/tecu23/probe-server/pkg/registry"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.logRequest)
	r.Use(middleware.Recoverer)

	for _, route := range registry.Routes {
		r.Get(route.Path(), app.Probes.Handler(route))
	}

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.Metrics))
	r.Get("/ws", app.handleWebSocket)

	return r
}
