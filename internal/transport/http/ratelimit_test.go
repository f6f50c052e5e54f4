package http

import (
	"testing"
	"time"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	limiter := newRateLimiter(2, time.Hour)

	if !limiter.allow("1.2.3.4") || !limiter.allow("1.2.3.4") {
		t.Fatal("requests within the limit must pass")
	}
	if limiter.allow("1.2.3.4") {
		t.Fatal("third request in the window must be rejected")
	}

	// Other keys are counted independently.
	if !limiter.allow("5.6.7.8") {
		t.Fatal("fresh key must pass")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !limiter.allow("1.2.3.4") {
			t.Fatal("zero limit must disable throttling")
		}
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	limiter := newRateLimiter(1, time.Nanosecond)

	if !limiter.allow("1.2.3.4") {
		t.Fatal("first request must pass")
	}
	time.Sleep(time.Millisecond)
	if !limiter.allow("1.2.3.4") {
		t.Fatal("new window must reset the count")
	}
}
