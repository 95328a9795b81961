package thinkme

import (
	"testing"
	"time"
)

func TestLoginLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := newLoginLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !limiter.Check(ip) {
		t.Fatalf("expected a fresh ip to be allowed")
	}
	limiter.Record(ip)
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected the ip to be blocked after max failures")
	}
}

func TestLoginLimiterIgnoresSuccesses(t *testing.T) {
	limiter := newLoginLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.15"

	// Check alone never consumes budget; only Record does.
	for i := 0; i < 10; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("expected check %d to be allowed without recorded failures", i)
		}
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := newLoginLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected the ip to be blocked inside the window")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected the ip to be allowed after the window")
	}
}

func TestLoginLimiterStop(t *testing.T) {
	limiter := newLoginLimiter(1, 50*time.Millisecond)

	limiter.Stop()
	limiter.Stop() // idempotent

	// The limiter itself keeps working after the cleanup goroutine ends;
	// Check prunes inline.
	ip := "203.0.113.40"
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected the ip to be blocked after a recorded failure")
	}
	time.Sleep(80 * time.Millisecond)
	if !limiter.Check(ip) {
		t.Fatalf("expected the ip to be allowed after the window, even when stopped")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := newLoginLimiter(1, 200*time.Millisecond)

	limiter.Record("203.0.113.30")
	if limiter.Check("203.0.113.30") {
		t.Fatalf("expected the first ip to be blocked")
	}
	if !limiter.Check("203.0.113.31") {
		t.Fatalf("expected the second ip to be allowed independently")
	}
}
