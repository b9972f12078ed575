package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/willibrandon/eventarb/internal/controls"
	"github.com/willibrandon/eventarb/internal/logger"
	"github.com/willibrandon/eventarb/internal/metrics"
)

// Board keeps the most recent snapshot published by a control loop. It
// implements controls.Publisher and is safe for concurrent readers.
type Board struct {
	mu        sync.RWMutex
	latest    controls.Snapshot
	published uint64
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Publish replaces the latest snapshot.
func (b *Board) Publish(s controls.Snapshot) {
	b.mu.Lock()
	b.latest = s
	b.published++
	b.mu.Unlock()
}

// Latest returns the most recent snapshot and the number of snapshots
// published so far. A zero count means nothing has been published.
func (b *Board) Latest() (controls.Snapshot, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.published
}

// Handlers provides IPC method handlers backed by a Board.
type Handlers struct {
	board     *Board
	metrics   *metrics.Metrics
	runID     string
	version   string
	startTime time.Time
}

// NewHandlers creates handlers for one loop run. m may be nil.
func NewHandlers(board *Board, m *metrics.Metrics, runID, version string) *Handlers {
	return &Handlers{
		board:     board,
		metrics:   m,
		runID:     runID,
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterAll registers all handlers with the server.
func (h *Handlers) RegisterAll(s *Server) {
	s.RegisterHandler(MethodStatusGet, h.StatusGet)
	s.RegisterHandler(MethodEventsSnapshot, h.EventsSnapshot)
}

// StatusGet handles status.get requests.
func (h *Handlers) StatusGet(_ context.Context, _ json.RawMessage) (any, error) {
	snap, published := h.board.Latest()
	warn, errCount := logger.GetCounts()

	result := StatusResult{
		RunID:         h.runID,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		StartTime:     h.startTime,
		Version:       h.version,
		WarnCount:     warn,
		ErrorCount:    errCount,
		RecentLogs:    logger.GetEntries(),
	}

	if published > 0 {
		result.Cycle = snap.Cycle
		result.LastCycleAt = snap.At
		if snap.Selected != nil {
			result.CurrentAlert = snap.Selected.AlertType
		}
	}

	if h.metrics != nil {
		result.Latency = h.metrics.Latency()
	}

	return result, nil
}

// EventsSnapshot handles events.snapshot requests.
func (h *Handlers) EventsSnapshot(_ context.Context, params json.RawMessage) (any, error) {
	var p SnapshotParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &HandlerError{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("invalid params: %v", err)}
		}
	}

	snap, published := h.board.Latest()
	if published == 0 {
		return nil, &HandlerError{Code: ErrCodeNotReady, Message: "no cycle has been published yet"}
	}
	if snap.Cycle < p.MinCycle {
		return nil, &HandlerError{
			Code:    ErrCodeNotReady,
			Message: fmt.Sprintf("latest cycle is %d, waiting for %d", snap.Cycle, p.MinCycle),
		}
	}

	return SnapshotResult{Snapshot: snap, Published: published}, nil
}
