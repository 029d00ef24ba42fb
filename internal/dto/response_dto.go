package dto

import "time"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message          string   `json:"message"`
	Details          []string `json:"details,omitempty"`
	AlreadyAttempted bool     `json:"already_attempted,omitempty"`
}

type HealthChecks struct {
	Database    string `json:"database"`
	Application string `json:"application"`
}

type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Checks    HealthChecks `json:"checks"`
}
