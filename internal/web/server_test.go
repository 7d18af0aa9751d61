package web

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	if !rl.allow("1.2.3.4") {
		t.Error("first request should be allowed")
	}
	if !rl.allow("1.2.3.4") {
		t.Error("second request should be allowed")
	}
	if rl.allow("1.2.3.4") {
		t.Error("third request should be rejected")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("different IP should have its own bucket")
	}
}

func TestRateLimiter_StopEndsCleanup(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	rl.stop()
	rl.stop() // idempotent

	select {
	case <-rl.done:
	default:
		t.Error("stop() should close the done channel")
	}
}

// Shutdown must stop the limiter janitors it started, even when the HTTP
// server never ran.
func TestServerShutdown_StopsLimiters(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 100
	cfg.Rate.IngestLimit = 10

	srv := NewServer(cfg, nil)
	if len(srv.limiters) != 2 {
		t.Fatalf("limiters = %d, want 2", len(srv.limiters))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	for i, rl := range srv.limiters {
		select {
		case <-rl.done:
		default:
			t.Errorf("limiter %d still running after Shutdown", i)
		}
	}
}
