package controls

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/willibrandon/eventarb/internal/alerts"
)

// Source yields the input of each cycle. Next returns io.EOF when exhausted.
type Source interface {
	Next(ctx context.Context) (Input, error)
}

// SliceSource replays a fixed list of inputs.
type SliceSource struct {
	inputs []Input
	pos    int
}

// NewSliceSource creates a source over inputs.
func NewSliceSource(inputs []Input) *SliceSource {
	return &SliceSource{inputs: inputs}
}

// Next returns the next input, or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (Input, error) {
	if err := ctx.Err(); err != nil {
		return Input{}, err
	}
	if s.pos >= len(s.inputs) {
		return Input{}, io.EOF
	}
	in := s.inputs[s.pos]
	s.pos++
	return in, nil
}

// RunOptions control Run.
type RunOptions struct {
	// Realtime paces cycles at the control period instead of running them
	// back to back.
	Realtime bool

	// OnResult is called after every cycle.
	OnResult func(Result)
}

// Run steps the loop over every input from src until the source is exhausted
// or ctx is cancelled. It returns the number of cycles run.
func (l *Loop) Run(ctx context.Context, src Source, opts RunOptions) (uint64, error) {
	var tick <-chan time.Time
	if opts.Realtime {
		ticker := time.NewTicker(time.Duration(alerts.CyclePeriod * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	var n uint64
	for {
		in, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			l.log.Info("input exhausted", "cycles", n)
			return n, nil
		}
		if err != nil {
			return n, err
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-tick:
			}
		}

		res := l.Step(ctx, in)
		n++
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}
}
