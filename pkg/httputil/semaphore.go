package httputil

import (
	"context"
	"sync/atomic"
)

// Semaphore bounds concurrent calls to the remote detector. A burst of
// uploads queues here instead of piling goroutines onto a slow external
// service; callers that give up waiting (context cancelled or timed
// out) are counted as abandoned.
type Semaphore struct {
	slots     chan struct{}
	abandoned atomic.Int64
}

// NewSemaphore creates a semaphore with the given capacity. A
// non-positive capacity falls back to 1, which serializes all calls.
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		capacity = 1
	}
	return &Semaphore{
		slots: make(chan struct{}, capacity),
	}
}

// Acquire blocks until a slot is free or ctx is done. A ctx error is
// returned to the caller and counted in Stats as an abandoned wait.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		s.abandoned.Add(1)
		return ctx.Err()
	}
}

// Release frees a slot. Must pair with a successful Acquire.
func (s *Semaphore) Release() {
	select {
	case <-s.slots:
	default:
		// Release without a matching Acquire; nothing to free.
	}
}

// Stats snapshots the semaphore for the health endpoint.
func (s *Semaphore) Stats() SemaphoreStats {
	inUse := len(s.slots)
	return SemaphoreStats{
		Capacity:  cap(s.slots),
		InUse:     inUse,
		Available: cap(s.slots) - inUse,
		Abandoned: s.abandoned.Load(),
	}
}

// SemaphoreStats reports remote-call backpressure.
type SemaphoreStats struct {
	Capacity  int   `json:"capacity"`
	InUse     int   `json:"in_use"`
	Available int   `json:"available"`
	Abandoned int64 `json:"abandoned"`
}
