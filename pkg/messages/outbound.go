package messages

// Outbound event names
const (
	EventConnected   = "CONNECTED"
	EventProbeCalled = "PROBE_CALLED"
)

// OutboundMessage is how we wrap responses before sending
// them to the client
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

// ProbeCalledPayload describes a single call to a probe route
type ProbeCalledPayload struct {
	Route          string  `json:"route"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	CalledAt       string  `json:"called_at"` // RFC3339Nano
}

// HealthPayload is returned by the health endpoint
type HealthPayload struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Routes map[string]string `json:"routes"` // route -> last call, RFC3339Nano
}
