package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/willibrandon/eventarb/internal/logger"
)

// Handler is a function that handles an IPC method call.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// HandlerError represents an error with a specific error code.
type HandlerError struct {
	Code    string
	Message string
}

func (e *HandlerError) Error() string {
	return e.Message
}

// Server handles IPC connections and routes requests to handlers.
type Server struct {
	listener *Listener
	handlers map[string]Handler
	log      *slog.Logger

	mu      sync.Mutex
	running bool
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
}

// NewServer creates a new IPC server listening on path.
func NewServer(path string) (*Server, error) {
	listener, err := NewListener(path)
	if err != nil {
		return nil, err
	}

	return &Server{
		listener: listener,
		handlers: make(map[string]Handler),
		log:      logger.With("component", "ipc"),
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

// RegisterHandler registers a handler for a method.
func (s *Server) RegisterHandler(method string, handler Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// Start begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mu.Unlock()

	s.log.Info("IPC server listening", "path", s.listener.Path())

	go s.acceptLoop(ctx)

	return nil
}

// Stop stops the server and closes all connections.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	err := s.listener.Close()

	s.wg.Wait()

	s.log.Info("IPC server stopped")
	return err
}

// Path returns the IPC endpoint path.
func (s *Server) Path() string {
	return s.listener.Path()
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			s.log.Warn("IPC accept error", "error", err)
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConnection(ctx, conn)
	}
}

// handleConnection serves newline-delimited requests until the client hangs up.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	s.log.Debug("IPC client connected")

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Warn("IPC read error", "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := NewErrorResponse("", ErrCodeInvalidRequest, fmt.Sprintf("invalid JSON: %v", err))
			if err := s.writeResponse(writer, resp); err != nil {
				return
			}
			continue
		}

		s.log.Debug("IPC request", "method", req.Method, "id", req.ID)

		resp := s.handleRequest(ctx, req)

		if err := s.writeResponse(writer, resp); err != nil {
			s.log.Warn("IPC write error", "error", err)
			return
		}
	}
}

// handleRequest routes a request to the appropriate handler.
func (s *Server) handleRequest(ctx context.Context, req Request) Response {
	s.mu.Lock()
	handler, ok := s.handlers[req.Method]
	s.mu.Unlock()

	if !ok {
		return NewErrorResponse(req.ID, ErrCodeMethodNotFound,
			fmt.Sprintf("unknown method: %s", req.Method))
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		var herr *HandlerError
		if errors.As(err, &herr) {
			return NewErrorResponse(req.ID, herr.Code, herr.Message)
		}
		return NewErrorResponse(req.ID, ErrCodeInternalError, err.Error())
	}

	resp, err := NewSuccessResponse(req.ID, result)
	if err != nil {
		return NewErrorResponse(req.ID, ErrCodeInternalError,
			fmt.Sprintf("failed to marshal response: %v", err))
	}

	return resp
}

func (s *Server) writeResponse(w *bufio.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
