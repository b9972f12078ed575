package ipc

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
)

// DefaultSocketPath is used when no socket path is configured.
const DefaultSocketPath = "/tmp/eventarb.sock"

// Listener is a unix domain socket listener that removes its socket file on
// close.
type Listener struct {
	listener net.Listener
	path     string
}

// NewListener creates a unix socket at path, replacing a stale socket file
// left behind by a crashed process.
func NewListener(path string) (*Listener, error) {
	if path == "" {
		path = DefaultSocketPath
	}

	if err := cleanupStaleSocket(path); err != nil {
		return nil, fmt.Errorf("failed to cleanup stale socket: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %w", err)
	}

	// Owner only.
	if err := os.Chmod(path, 0600); err != nil {
		listener.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return &Listener{
		listener: listener,
		path:     path,
	}, nil
}

// Accept waits for and returns the next connection to the listener.
func (l *Listener) Accept() (net.Conn, error) {
	return l.listener.Accept()
}

// Close closes the listener and removes the socket file.
func (l *Listener) Close() error {
	err := l.listener.Close()
	os.Remove(l.path)
	return err
}

// Path returns the socket path.
func (l *Listener) Path() string {
	return l.path
}

// Dial connects to the socket at path.
func Dial(path string) (net.Conn, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	return net.Dial("unix", path)
}

func cleanupStaleSocket(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	conn, err := net.Dial("unix", path)
	if err == nil {
		conn.Close()
		return fmt.Errorf("IPC socket already in use by another process: %s", path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}
