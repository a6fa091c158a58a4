// Package api holds the JSON wire schema of the Planoraa HTTP API. The server
// encodes these types and pkg/client decodes them, so both sides share one
// definition per entity.
//
// Request types carry go-playground/validator tags; the server runs them
// before any business rule.
package api

import "encoding/json"

// Envelope wraps every response body.
// Error is only populated by servers running in development mode.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RawEnvelope is Envelope with Data left undecoded, for clients that decode
// Data into a concrete type.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
