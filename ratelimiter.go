/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateClass selects which token-bucket parameters apply to a sender.
type RateClass uint8

const (
	// Normal is the default, unprivileged sender class.
	Normal RateClass = iota
	// Moderator is granted to senders with moderator or broadcaster status.
	Moderator
	// Join governs JOIN/PART traffic, which has its own bucket regardless
	// of privilege.
	Join
	// Whisper governs WHISPER traffic, underspecified upstream so it gets
	// its own bucket rather than sharing Normal's.
	Whisper
)

// RateLimits is the set of (capacity, period) pairs for every class.
type RateLimits struct {
	Normal    RateBucketConfig
	Moderator RateBucketConfig
	Join      RateBucketConfig
	Whisper   RateBucketConfig
}

// RateBucketConfig is one class's capacity and refill period.
type RateBucketConfig struct {
	Capacity int
	Period   time.Duration
}

// DefaultRateLimits returns the documented default bucket parameters.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Normal:    RateBucketConfig{Capacity: 20, Period: 30 * time.Second},
		Moderator: RateBucketConfig{Capacity: 100, Period: 30 * time.Second},
		Join:      RateBucketConfig{Capacity: 50, Period: 15 * time.Second},
		Whisper:   RateBucketConfig{Capacity: 20, Period: 30 * time.Second},
	}
}

// RateLimiter gates outbound sends by sender class. Acquisition is FIFO per
// bucket; the sender's class (Normal vs Moderator) can change at runtime
// (typically from a UserState tag) without disturbing acquisitions already
// in flight, since each Acquire call captures the bucket to use at entry.
type RateLimiter struct {
	mu      sync.RWMutex
	class   atomic.Int32
	buckets map[RateClass]*rate.Limiter

	closeOnce sync.Once
	closed    chan struct{}
}

// NewRateLimiter builds a RateLimiter from limits, one golang.org/x/time/rate
// limiter per class.
func NewRateLimiter(limits RateLimits) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[RateClass]*rate.Limiter, 4),
		closed:  make(chan struct{}),
	}
	rl.buckets[Normal] = newTokenBucket(limits.Normal)
	rl.buckets[Moderator] = newTokenBucket(limits.Moderator)
	rl.buckets[Join] = newTokenBucket(limits.Join)
	rl.buckets[Whisper] = newTokenBucket(limits.Whisper)
	return rl
}

func newTokenBucket(cfg RateBucketConfig) *rate.Limiter {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}
	every := cfg.Period / time.Duration(cfg.Capacity)
	return rate.NewLimiter(rate.Every(every), cfg.Capacity)
}

// SetClass atomically updates the privilege class used for future
// acquisitions of the Normal/Moderator bucket. It has no effect on the Join
// or Whisper buckets, which are selected explicitly per call.
func (rl *RateLimiter) SetClass(class RateClass) {
	rl.class.Store(int32(class))
}

// Class returns the currently configured privilege class.
func (rl *RateLimiter) Class() RateClass {
	return RateClass(rl.class.Load())
}

// Acquire blocks until a token is available in the bucket for class, or
// returns ErrRateLimiterClosed if the limiter is closed while waiting.
func (rl *RateLimiter) Acquire(ctx context.Context, class RateClass) error {
	select {
	case <-rl.closed:
		return ErrRateLimiterClosed
	default:
	}

	rl.mu.RLock()
	bucket := rl.buckets[class]
	rl.mu.RUnlock()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- bucket.Wait(waitCtx) }()

	select {
	case err := <-done:
		return err
	case <-rl.closed:
		cancel()
		return ErrRateLimiterClosed
	}
}

// AcquirePrivileged acquires from whichever of Normal/Moderator is currently
// configured via SetClass.
func (rl *RateLimiter) AcquirePrivileged(ctx context.Context) error {
	return rl.Acquire(ctx, rl.Class())
}

// Close releases all pending and future Acquire calls with
// ErrRateLimiterClosed.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.closed) })
}
