package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/willibrandon/eventarb/internal/events"
)

const defaultCallTimeout = 30 * time.Second

// Client is an IPC client for querying a running control loop.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewClient creates a new IPC client connected to the socket at path.
func NewClient(path string) (*Client, error) {
	conn, err := Dial(path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IPC socket: %w", err)
	}

	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		writer: bufio.NewWriter(conn),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call makes an IPC call and returns the response. The call is bounded by
// the context deadline, or 30 seconds without one.
func (c *Client) Call(ctx context.Context, method string, params any) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := Request{
		ID:     uuid.New().String(),
		Method: method,
	}

	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = data
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultCallTimeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if _, err := c.writer.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write request: %w", err)
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return nil, fmt.Errorf("failed to write newline: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush: %w", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request id %q", resp.ID, req.ID)
	}

	return &resp, nil
}

// call runs method and decodes a successful result into out. Error
// responses come back as *HandlerError.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	resp, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}

	if resp.Error != nil {
		return &HandlerError{Code: resp.Error.Code, Message: resp.Error.Message}
	}

	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to parse result: %w", err)
	}
	return nil
}

// Status calls status.get and returns the result.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var result StatusResult
	if err := c.call(ctx, MethodStatusGet, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Snapshot calls events.snapshot and returns the latest published cycle.
func (c *Client) Snapshot(ctx context.Context, params SnapshotParams) (*SnapshotResult, error) {
	var result SnapshotResult
	if err := c.call(ctx, MethodEventsSnapshot, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Rebuild fetches the latest snapshot and replays its events into a fresh
// aggregator over registry, giving the caller the loop's view of the cycle.
// Records naming events the registry does not know are rejected.
func (c *Client) Rebuild(ctx context.Context, registry *events.Registry) (*events.Aggregator, *SnapshotResult, error) {
	snap, err := c.Snapshot(ctx, SnapshotParams{})
	if err != nil {
		return nil, nil, err
	}

	agg := events.NewAggregator(registry)
	if err := agg.AddFromMessage(snap.Events); err != nil {
		return nil, snap, fmt.Errorf("snapshot of cycle %d: %w", snap.Cycle, err)
	}
	return agg, snap, nil
}
