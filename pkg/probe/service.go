// Package probe serves the timing endpoints
package probe

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/probe-server/pkg/events"
	"github.com/tecu23/probe-server/pkg/messages"
	"github.com/tecu23/probe-server/pkg/metrics"
	"github.com/tecu23/probe-server/pkg/registry"
)

// Response is the acknowledgment every probe route returns
type Response struct {
	Test string `json:"test"`
}

// OK is the fixed probe response body
var OK = Response{Test: "ok"}

// Service times the calls to each probe route
type Service struct {
	registry  *registry.LastCallRegistry
	publisher *events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	now func() time.Time
}

// NewService creates a probe service around reg. publisher and m may be nil.
func NewService(
	reg *registry.LastCallRegistry,
	logger *zap.Logger,
	publisher *events.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry:  reg,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Registry returns the registry the service records calls in
func (s *Service) Registry() *registry.LastCallRegistry {
	return s.registry
}

// Call records a call to route arriving now and returns the time since the previous one
func (s *Service) Call(route registry.Route) (time.Duration, error) {
	now := s.now()

	elapsed, err := s.registry.Touch(route, now)
	if err != nil {
		return 0, err
	}

	s.logger.Info("probe called",
		zap.String("route", string(route)),
		zap.Float64("elapsed_seconds", elapsed.Seconds()),
	)

	s.metrics.ObserveCall(string(route), elapsed, now)

	s.publisher.Publish(events.Event{
		Type:       events.EventProbeCalled,
		Route:      string(route),
		OccurredAt: now,
		Payload: messages.ProbeCalledPayload{
			Route:          string(route),
			ElapsedSeconds: elapsed.Seconds(),
			CalledAt:       now.UTC().Format(time.RFC3339Nano),
		},
	})

	return elapsed, nil
}

// Handler returns the HTTP handler for route
func (s *Service) Handler(route registry.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if _, err := s.Call(route); err != nil {
			s.logger.Error("probe call failed", zap.String("route", string(route)), zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(OK); err != nil {
			s.logger.Error("Error marshaling JSON", zap.Error(err))
		}
	}
}
