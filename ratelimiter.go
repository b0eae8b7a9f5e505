package pqm

import (
	"context"
	"sync"
	"time"
)

/*
RateLimiter throttles job submission to a backend with a token bucket.
Every job takes a token; one token comes back per refillRate, up to
maxTokens, so short bursts pass while the long-run rate stays bounded.
*/
type RateLimiter struct {
	tokens     int           // Current number of available tokens
	maxTokens  int           // Burst capacity
	refillRate time.Duration // Time between token replenishments
	lastRefill time.Time     // Start of the current refill period
	mu         sync.Mutex
}

/*
NewRateLimiter creates a full bucket of maxTokens that regains one token
per refillRate.

Example:

	limiter := NewRateLimiter(4, 250*time.Millisecond) // bursts of 4, 4 jobs/second
*/
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	if maxTokens < 1 {
		maxTokens = 1
	}

	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Limit takes a token if one is available and reports whether the job must wait.
func (rl *RateLimiter) Limit() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}
	return true
}

/*
Wait blocks until a token is available and takes it, or returns the
context error when ctx is done first.
*/
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens > 0 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		wait := time.Until(rl.lastRefill.Add(rl.refillRate))
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Tokens reports the tokens available right now.
func (rl *RateLimiter) Tokens() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

// refill adds a token per complete period since lastRefill. The caller holds mu.
func (rl *RateLimiter) refill() {
	if rl.refillRate <= 0 {
		rl.tokens = rl.maxTokens
		return
	}

	periods := time.Since(rl.lastRefill) / rl.refillRate
	if periods <= 0 {
		return
	}

	rl.tokens = min(rl.maxTokens, rl.tokens+int(periods))
	rl.lastRefill = rl.lastRefill.Add(periods * rl.refillRate)
}
