package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/carelink/carelink/internal/health"
	"github.com/prometheus/client_golang/prometheus"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(_ context.Context) error { return p.err }

func newChecker(p health.Pinger) *health.Checker {
	return health.NewChecker(p, slog.Default(), prometheus.NewRegistry())
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c := newChecker(&fakePinger{err: errors.New("db down")})
	if got := c.Liveness(context.Background()); got.Status != "up" {
		t.Errorf("liveness status = %q, want up", got.Status)
	}
}

func TestReadiness_DBUp(t *testing.T) {
	c := newChecker(&fakePinger{})
	got := c.Readiness(context.Background())
	if got.Status != "up" {
		t.Errorf("status = %q, want up", got.Status)
	}
	if got.Checks["postgres"].Status != "up" {
		t.Errorf("postgres check = %q, want up", got.Checks["postgres"].Status)
	}
}

func TestReadiness_DBDown(t *testing.T) {
	c := newChecker(&fakePinger{err: errors.New("connection refused")})
	got := c.Readiness(context.Background())
	if got.Status != "down" {
		t.Errorf("status = %q, want down", got.Status)
	}
	if got.Checks["postgres"].Error == "" {
		t.Error("expected error detail for postgres check")
	}
}
