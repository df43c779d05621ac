package backend

import (
	"testing"
	"time"
)

func TestThrottleAllowsOncePerInterval(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	th := newThrottle(5 * time.Second)
	th.now = func() time.Time { return now }

	if !th.allow() {
		t.Fatalf("expected first call allowed")
	}
	if th.allow() {
		t.Fatalf("expected second call inside interval rejected")
	}
	now = now.Add(5 * time.Second)
	if !th.allow() {
		t.Fatalf("expected call after interval allowed")
	}
}

func TestThrottleZeroIntervalAlwaysAllows(t *testing.T) {
	th := newThrottle(0)
	for i := 0; i < 3; i++ {
		if !th.allow() {
			t.Fatalf("expected zero interval to allow call %d", i)
		}
	}
	var nilThrottle *throttle
	if !nilThrottle.allow() {
		t.Fatalf("expected nil throttle to allow")
	}
}
