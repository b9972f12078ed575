package metrics

import (
	"sync"
	"time"
)

// DefaultSampleCapacity is the number of cycle latencies kept for the
// status endpoint.
const DefaultSampleCapacity = 256

// LatencySample is the processing time of one cycle.
type LatencySample struct {
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
}

// SampleBuffer is a fixed-size ring buffer of latency samples.
// It is thread-safe and evicts the oldest sample when full.
type SampleBuffer struct {
	data     []LatencySample
	capacity int
	head     int // Next write position
	size     int
	mu       sync.RWMutex
}

// NewSampleBuffer creates a buffer holding at most capacity samples.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity <= 0 {
		capacity = DefaultSampleCapacity
	}
	return &SampleBuffer{
		data:     make([]LatencySample, capacity),
		capacity: capacity,
	}
}

// Push adds a sample, evicting the oldest if at capacity. Negative
// durations are dropped.
func (b *SampleBuffer) Push(s LatencySample) {
	if s.Duration < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = s
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// GetRecent returns the n most recent samples in chronological order.
func (b *SampleBuffer) GetRecent(n int) []LatencySample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || b.size == 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}

	result := make([]LatencySample, n)
	start := (b.head - n + b.capacity) % b.capacity
	for i := 0; i < n; i++ {
		result[i] = b.data[(start+i)%b.capacity]
	}
	return result
}

// GetSince returns every sample taken at or after since, oldest first.
func (b *SampleBuffer) GetSince(since time.Time) []LatencySample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	oldest := (b.head - b.size + b.capacity) % b.capacity

	var result []LatencySample
	for i := 0; i < b.size; i++ {
		s := b.data[(oldest+i)%b.capacity]
		if !s.At.Before(since) {
			result = append(result, s)
		}
	}
	return result
}

// Latest returns the most recent sample.
// Returns a zero sample and false if the buffer is empty.
func (b *SampleBuffer) Latest() (LatencySample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return LatencySample{}, false
	}
	return b.data[(b.head-1+b.capacity)%b.capacity], true
}

// Max returns the longest duration currently held.
func (b *SampleBuffer) Max() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out time.Duration
	for i := 0; i < b.size; i++ {
		if d := b.data[i].Duration; d > out {
			out = d
		}
	}
	return out
}

// Len returns the current number of samples.
func (b *SampleBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Cap returns the capacity of the buffer.
func (b *SampleBuffer) Cap() int {
	return b.capacity
}
