package ipc

import (
	"encoding/json"
	"time"

	"github.com/willibrandon/eventarb/internal/controls"
	"github.com/willibrandon/eventarb/internal/logger"
	"github.com/willibrandon/eventarb/internal/metrics"
)

// Request represents an IPC request from a consumer process.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// Response represents an IPC response from the control loop.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error represents an IPC error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeMethodNotFound = "METHOD_NOT_FOUND"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeNotReady       = "NOT_READY"
)

// Method names.
const (
	MethodStatusGet      = "status.get"
	MethodEventsSnapshot = "events.snapshot"
)

// SnapshotParams are the parameters of events.snapshot.
type SnapshotParams struct {
	// MinCycle makes the call fail with NOT_READY until the loop has
	// published at least that cycle.
	MinCycle uint64 `json:"min_cycle,omitempty"`
}

// SnapshotResult is the result of events.snapshot.
type SnapshotResult struct {
	controls.Snapshot
	Published uint64 `json:"published"`
}

// StatusResult is the result of status.get.
type StatusResult struct {
	RunID         string               `json:"run_id"`
	PID           int                  `json:"pid"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	StartTime     time.Time            `json:"start_time"`
	Version       string               `json:"version"`
	Cycle         uint64               `json:"cycle"`
	CurrentAlert  string               `json:"current_alert,omitempty"`
	LastCycleAt   time.Time            `json:"last_cycle_at,omitzero"`
	Latency       metrics.LatencyStats `json:"latency"`
	WarnCount     int                  `json:"warn_count"`
	ErrorCount    int                  `json:"error_count"`
	RecentLogs    []logger.LogEntry    `json:"recent_logs,omitempty"`
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id string, code, message string) Response {
	return Response{
		ID: id,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	}
}

// NewSuccessResponse creates a success response.
func NewSuccessResponse(id string, result any) (Response, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return Response{}, err
	}
	return Response{
		ID:     id,
		Result: data,
	}, nil
}
