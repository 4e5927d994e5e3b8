// Package health reports provider connectivity over HTTP.
package health

import "time"

// SystemStatus represents the overall health state of the worker.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report is the detailed health view.
type Report struct {
	Status        SystemStatus `json:"status"`
	ProviderState string       `json:"provider_state"`
	LatestBlock   uint64       `json:"latest_block"`
	LastBlockAt   *time.Time   `json:"last_block_at,omitempty"`
}
