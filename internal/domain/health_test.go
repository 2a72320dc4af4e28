package domain_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ricirt/accounts-api/internal/domain"
)

func TestNewHealthStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

	t.Run("reachable database is healthy", func(t *testing.T) {
		hs := domain.NewHealthStatus(nil, now, "test", domain.DefaultVersion)
		if hs.Status != domain.HealthHealthy || hs.Database != domain.DatabaseOK {
			t.Fatalf("expected healthy/ok, got %s/%s", hs.Status, hs.Database)
		}
		if hs.HTTPStatus() != http.StatusOK {
			t.Fatalf("expected 200, got %d", hs.HTTPStatus())
		}
	})

	t.Run("database error is unhealthy", func(t *testing.T) {
		hs := domain.NewHealthStatus(errors.New("connection refused"), now, "test", domain.DefaultVersion)
		if hs.Status != domain.HealthUnhealthy || hs.Database != domain.DatabaseError {
			t.Fatalf("expected unhealthy/error, got %s/%s", hs.Status, hs.Database)
		}
		if hs.HTTPStatus() != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", hs.HTTPStatus())
		}
	})

	t.Run("timestamp is UTC RFC3339", func(t *testing.T) {
		hs := domain.NewHealthStatus(nil, now, "test", domain.DefaultVersion)
		if hs.Timestamp != "2026-03-14T08:26:53Z" {
			t.Fatalf("unexpected timestamp %q", hs.Timestamp)
		}
	})

	t.Run("environment and version are copied", func(t *testing.T) {
		hs := domain.NewHealthStatus(nil, now, "production", "1.0.0")
		if hs.Environment != "production" || hs.Version != "1.0.0" {
			t.Fatalf("unexpected env/version %q/%q", hs.Environment, hs.Version)
		}
	})
}
