package metrics

import (
	"sync"
	"testing"
	"time"
)

func sampleAt(at time.Time, d time.Duration) LatencySample {
	return LatencySample{At: at, Duration: d}
}

func TestSampleBuffer_Eviction(t *testing.T) {
	buf := NewSampleBuffer(3)
	now := time.Now()

	for i := 1; i <= 4; i++ {
		buf.Push(sampleAt(now, time.Duration(i)*time.Millisecond))
	}

	if buf.Len() != 3 {
		t.Errorf("expected len 3 after eviction, got %d", buf.Len())
	}

	recent := buf.GetRecent(10)
	expected := []time.Duration{2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond}
	for i, s := range recent {
		if s.Duration != expected[i] {
			t.Errorf("expected recent[%d]=%v, got %v", i, expected[i], s.Duration)
		}
	}

	if buf.Max() != 4*time.Millisecond {
		t.Errorf("expected max 4ms, got %v", buf.Max())
	}
}

func TestSampleBuffer_GetRecent(t *testing.T) {
	buf := NewSampleBuffer(5)
	now := time.Now()

	if got := buf.GetRecent(3); got != nil {
		t.Errorf("expected nil from empty buffer, got %v", got)
	}

	for i := 1; i <= 5; i++ {
		buf.Push(sampleAt(now, time.Duration(i)))
	}

	got := buf.GetRecent(2)
	if len(got) != 2 || got[0].Duration != 4 || got[1].Duration != 5 {
		t.Errorf("expected [4 5], got %v", got)
	}
}

func TestSampleBuffer_GetSince(t *testing.T) {
	buf := NewSampleBuffer(10)
	now := time.Now()

	buf.Push(sampleAt(now.Add(-3*time.Minute), 1))
	buf.Push(sampleAt(now.Add(-1*time.Minute), 2))
	buf.Push(sampleAt(now, 3))

	got := buf.GetSince(now.Add(-2 * time.Minute))
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if got[0].Duration != 2 {
		t.Errorf("expected oldest matching sample first, got %v", got[0].Duration)
	}
}

func TestSampleBuffer_Latest(t *testing.T) {
	buf := NewSampleBuffer(2)

	if _, ok := buf.Latest(); ok {
		t.Error("expected no latest sample in empty buffer")
	}

	now := time.Now()
	buf.Push(sampleAt(now, 7))
	buf.Push(sampleAt(now, 8))
	buf.Push(sampleAt(now, 9))

	latest, ok := buf.Latest()
	if !ok || latest.Duration != 9 {
		t.Errorf("expected latest 9, got %v (ok=%v)", latest.Duration, ok)
	}
}

func TestSampleBuffer_DropsNegative(t *testing.T) {
	buf := NewSampleBuffer(2)
	buf.Push(sampleAt(time.Now(), -1))

	if buf.Len() != 0 {
		t.Errorf("expected negative sample to be dropped, len=%d", buf.Len())
	}
}

func TestSampleBuffer_DefaultCapacity(t *testing.T) {
	buf := NewSampleBuffer(0)
	if buf.Cap() != DefaultSampleCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultSampleCapacity, buf.Cap())
	}
}

func TestSampleBuffer_Concurrent(t *testing.T) {
	buf := NewSampleBuffer(64)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				buf.Push(sampleAt(time.Now(), time.Duration(i)))
				buf.GetRecent(8)
				buf.Max()
			}
		}()
	}
	wg.Wait()

	if buf.Len() != 64 {
		t.Errorf("expected full buffer, got %d", buf.Len())
	}
}
