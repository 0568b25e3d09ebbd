// Package main is the entry point of the application
package main

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/probe-server/pkg/messages"
)

// handleHealth handles the GET /health endpoint
func (app *application) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snapshot := app.Probes.Registry().Snapshot()

	routes := make(map[string]string, len(snapshot))
	for route, at := range snapshot {
		routes[string(route)] = at.UTC().Format(time.RFC3339Nano)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(messages.HealthPayload{
		Status: "ok",
		Uptime: time.Since(app.StartTime).String(),
		Routes: routes,
	})
	if err != nil {
		app.Logger.Error("Error marshaling JSON", zap.Error(err))
	}
}
