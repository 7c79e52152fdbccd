package api

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)
	defer rl.Stop()

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("a") {
		t.Fatal("third request inside the window should be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("other keys are limited independently")
	}

	time.Sleep(80 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("request after the window should be allowed")
	}
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Stop()

	rl.Allow("idle")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rl.mu.Lock()
		n := len(rl.requests)
		rl.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("idle key was never evicted")
}

func TestRateLimiterStopReleasesGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rl := NewRateLimiter(1, time.Millisecond)
	rl.Allow("x")
	rl.Stop()
	rl.Stop()
}
