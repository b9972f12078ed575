package sqlite

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/willibrandon/eventarb/internal/alerts"
)

// Compression selects the codec used for history exports.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// ParseCompression converts a flag value to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip, CompressionLZ4, CompressionZstd:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (valid: none, gzip, lz4, zstd)", s)
	}
}

// Extension returns the conventional file suffix for c.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".jsonl.gz"
	case CompressionLZ4:
		return ".jsonl.lz4"
	case CompressionZstd:
		return ".jsonl.zst"
	default:
		return ".jsonl"
	}
}

// exportRecord is the JSON Lines form of one transition.
type exportRecord struct {
	ID            int64     `json:"id"`
	RunID         string    `json:"run_id"`
	Cycle         uint64    `json:"cycle"`
	PrevAlertType string    `json:"prev_alert_type,omitempty"`
	AlertType     string    `json:"alert_type,omitempty"`
	Text1         string    `json:"text1,omitempty"`
	Text2         string    `json:"text2,omitempty"`
	Status        string    `json:"status,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	ShownAt       time.Time `json:"shown_at"`
}

func toExportRecord(t alerts.Transition) exportRecord {
	rec := exportRecord{
		ID:            t.ID,
		RunID:         t.RunID,
		Cycle:         t.Cycle,
		PrevAlertType: t.PrevAlertType,
		AlertType:     t.AlertType,
		Text1:         t.Text1,
		Text2:         t.Text2,
		Status:        string(t.Status),
		ShownAt:       t.ShownAt,
	}
	if !t.Cleared() {
		rec.Priority = t.Priority.String()
	}
	return rec
}

func (r exportRecord) transition() (alerts.Transition, error) {
	t := alerts.Transition{
		ID:            r.ID,
		RunID:         r.RunID,
		Cycle:         r.Cycle,
		PrevAlertType: r.PrevAlertType,
		AlertType:     r.AlertType,
		Text1:         r.Text1,
		Text2:         r.Text2,
		Status:        alerts.Status(r.Status),
		ShownAt:       r.ShownAt,
	}
	if r.Priority != "" {
		p, err := alerts.ParsePriority(r.Priority)
		if err != nil {
			return t, err
		}
		t.Priority = p
	}
	return t, nil
}

// compressWriter wraps w with the codec for c. The returned closer flushes
// the codec and must be closed before w.
func compressWriter(w io.Writer, c Compression) (io.Writer, io.Closer, error) {
	switch c {
	case CompressionGzip:
		gz := gzip.NewWriter(w)
		return gz, gz, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, zw, nil
	default:
		return w, nil, nil
	}
}

// Export writes transitions, oldest first, as JSON Lines compressed with c.
// It returns the number of transitions written.
func (s *AlertStore) Export(ctx context.Context, w io.Writer, c Compression, since time.Time) (int, error) {
	history, err := s.GetHistorySince(ctx, since, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %w", err)
	}
	return WriteTransitions(w, c, history)
}

// WriteTransitions encodes history in reverse order, so newest-first query
// results come out oldest first.
func WriteTransitions(w io.Writer, c Compression, history []alerts.Transition) (int, error) {
	cw, closer, err := compressWriter(w, c)
	if err != nil {
		return 0, err
	}

	enc := json.NewEncoder(cw)
	n := 0
	for i := len(history) - 1; i >= 0; i-- {
		if err := enc.Encode(toExportRecord(history[i])); err != nil {
			if closer != nil {
				closer.Close()
			}
			return n, fmt.Errorf("failed to encode transition %d: %w", history[i].ID, err)
		}
		n++
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			return n, fmt.Errorf("failed to close compression writer: %w", err)
		}
	}
	return n, nil
}

// ReadTransitions decodes an export produced by WriteTransitions.
func ReadTransitions(r io.Reader, c Compression) ([]alerts.Transition, error) {
	var src io.Reader = r
	switch c {
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		src = gz
	case CompressionLZ4:
		src = lz4.NewReader(r)
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var out []alerts.Transition
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec exportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t, err := rec.transition()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, t)
	}
	return out, scanner.Err()
}
