package domain

import (
	"net/http"
	"time"
)

// HealthState is the overall verdict reported by the health endpoint.
type HealthState string

const (
	HealthHealthy   HealthState = "healthy"
	HealthUnhealthy HealthState = "unhealthy"
)

// DatabaseState is the outcome of the datastore liveness query.
type DatabaseState string

const (
	DatabaseOK    DatabaseState = "ok"
	DatabaseError DatabaseState = "error"
)

// DefaultVersion is reported when APP_VERSION is not set.
const DefaultVersion = "1.0.0"

// HealthStatus is built fresh for every health request and never persisted.
type HealthStatus struct {
	Status      HealthState   `json:"status"`
	Timestamp   string        `json:"timestamp"`
	Database    DatabaseState `json:"database"`
	Environment string        `json:"environment"`
	Version     string        `json:"version"`
}

// NewHealthStatus derives a status from the result of the database probe.
// A nil dbErr means the datastore answered; any error marks it unavailable.
// Status and Database are always set together so they cannot disagree.
func NewHealthStatus(dbErr error, now time.Time, environment, version string) HealthStatus {
	hs := HealthStatus{
		Status:      HealthHealthy,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Database:    DatabaseOK,
		Environment: environment,
		Version:     version,
	}
	if dbErr != nil {
		hs.Status = HealthUnhealthy
		hs.Database = DatabaseError
	}
	return hs
}

// HTTPStatus maps the overall verdict to the response code.
func (h HealthStatus) HTTPStatus() int {
	if h.Status == HealthHealthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
