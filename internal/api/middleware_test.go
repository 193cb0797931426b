package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, zap.NewNop())
	rl.now = func() time.Time { return now }

	first := rl.get("10.0.0.1")
	if !first.Allow() {
		t.Fatalf("first request should pass")
	}
	now = now.Add(limiterIdle / 2)
	rl.get("10.0.0.2")

	now = now.Add(limiterIdle/2 + time.Second)
	if removed := rl.cleanup(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Fatalf("idle client kept")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Fatalf("recent client evicted")
	}

	if rl.get("10.0.0.1") == first {
		t.Fatalf("evicted client should get a fresh bucket")
	}
}

func TestRateLimiterCloseIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, 1, zap.NewNop())
	rl.startCleanup(time.Millisecond)
	rl.close()
	rl.close()
	select {
	case <-rl.stop:
	default:
		t.Fatalf("stop channel not closed")
	}
}

func TestUnmatchedRoutesShareMetricLabel(t *testing.T) {
	h := newTestServer(t, Options{})
	expectStatus(t, call(t, h, http.MethodGet, "/no-such-route-7f3a", nil), http.StatusNotFound)

	resp := call(t, h, http.MethodGet, "/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
	body := resp.Body.String()
	if strings.Contains(body, "no-such-route-7f3a") {
		t.Fatalf("raw path leaked into metric labels")
	}
	if !strings.Contains(body, `path="unmatched"`) {
		t.Fatalf("unmatched label missing")
	}
}
