// Package registry keeps the last invocation time of every probe route
package registry

import (
	"errors"
	"sync"
	"time"
)

// Route is the name of a probe endpoint, also used as its path segment
type Route string

// The fixed set of probe routes
const (
	Test1 Route = "test_1"
	Test2 Route = "test_2"
	Test3 Route = "test_3"
)

// Routes lists every probe route in serving order
var Routes = []Route{Test1, Test2, Test3}

// ErrUnknownRoute is returned for a route the registry was not seeded with
var ErrUnknownRoute = errors.New("unknown route")

// Path returns the HTTP path the route is served on
func (r Route) Path() string {
	return "/" + string(r)
}

type lastCall struct {
	mu sync.Mutex
	at time.Time
}

// LastCallRegistry maps each route to the time of its most recent call.
// The set of routes is fixed at construction, so lookups need no lock and
// each entry carries its own mutex.
type LastCallRegistry struct {
	entries map[Route]*lastCall
}

// NewLastCallRegistry seeds every route with start. Without routes it uses Routes.
func NewLastCallRegistry(start time.Time, routes ...Route) *LastCallRegistry {
	if len(routes) == 0 {
		routes = Routes
	}

	entries := make(map[Route]*lastCall, len(routes))
	for _, route := range routes {
		entries[route] = &lastCall{at: start}
	}

	return &LastCallRegistry{
		entries: entries,
	}
}

// Touch returns the time elapsed since the previous call to route and records now
// as the new last call
func (r *LastCallRegistry) Touch(route Route, now time.Time) (time.Duration, error) {
	entry, ok := r.entries[route]
	if !ok {
		return 0, ErrUnknownRoute
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := now.Sub(entry.at)
	entry.at = now

	return elapsed, nil
}

// LastCall returns the stored timestamp for route
func (r *LastCallRegistry) LastCall(route Route) (time.Time, error) {
	entry, ok := r.entries[route]
	if !ok {
		return time.Time{}, ErrUnknownRoute
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.at, nil
}

// Snapshot copies the current timestamps of all routes
func (r *LastCallRegistry) Snapshot() map[Route]time.Time {
	snapshot := make(map[Route]time.Time, len(r.entries))
	for route, entry := range r.entries {
		entry.mu.Lock()
		snapshot[route] = entry.at
		entry.mu.Unlock()
	}

	return snapshot
}
