package server

import (
	"context"
	"time"
)

// HealthChecker reports whether the service dependencies are reachable.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// OkHealthChecker is used when the API runs without a database.
type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// TimeoutHealthChecker bounds every check so a hung dependency fails the
// probe instead of blocking it.
type TimeoutHealthChecker struct {
	next    HealthChecker
	timeout time.Duration
}

func WithTimeout(next HealthChecker, timeout time.Duration) *TimeoutHealthChecker {
	return &TimeoutHealthChecker{next: next, timeout: timeout}
}

func (hc *TimeoutHealthChecker) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()
	return hc.next.Healthy(ctx)
}
