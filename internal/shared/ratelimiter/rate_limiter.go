package ratelimiter

import (
	"log/slog"
	"time"
)

// RateLimiterInterface paces calls to a remote API that enforces a request quota.
type RateLimiterInterface interface {
	// Pause waits the fixed delay required between two successful calls.
	Pause()
	// Backoff waits the longer delay required after the remote rejected a call with a rate-limit response.
	Backoff()
}

// RateLimiter sleeps a fixed duration between calls and a longer one after a rejection.
// It keeps no state across calls; callers invoke it strictly sequentially.
type RateLimiter struct {
	pause   time.Duration
	backoff time.Duration
	sleep   func(time.Duration)
}

// NewRateLimiter returns a RateLimiter. Non-positive durations disable the corresponding wait.
func NewRateLimiter(pause, backoff time.Duration) *RateLimiter {
	return &RateLimiter{pause: pause, backoff: backoff, sleep: time.Sleep}
}

// Pause sleeps for the inter-request delay.
func (rl *RateLimiter) Pause() {
	if rl.pause <= 0 {
		return
	}
	rl.sleep(rl.pause)
}

// Backoff sleeps for the rate-limit backoff delay.
func (rl *RateLimiter) Backoff() {
	if rl.backoff <= 0 {
		return
	}
	slog.Info("rate limited by remote, backing off", "duration", rl.backoff)
	rl.sleep(rl.backoff)
}
