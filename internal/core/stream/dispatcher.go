package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/markdave123-py/contexta-explain/internal/core"
)

// Dispatcher paces an answer out to a Sink one unit at a time.
type Dispatcher struct {
	delay time.Duration
}

func NewDispatcher(delay time.Duration) *Dispatcher {
	if delay < 0 {
		delay = 0
	}
	return &Dispatcher{delay: delay}
}

// Dispatch writes one DATA frame per unit of text, waiting delay between
// consecutive units, then a single DONE frame.
//
// If the client goes away (ctx cancelled or a write fails) it stops at once
// and returns core.ErrConnectionAborted without a terminal frame.
func (d *Dispatcher) Dispatch(ctx context.Context, sink Sink, text string) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	first := true
	for unit := range Units(text) {
		if !first && d.delay > 0 {
			if timer == nil {
				timer = time.NewTimer(d.delay)
			} else {
				timer.Reset(d.delay)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", core.ErrConnectionAborted, ctx.Err())
			case <-timer.C:
			}
		}
		first = false

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", core.ErrConnectionAborted, err)
		}
		if err := sink.Data(unit); err != nil {
			return fmt.Errorf("%w: %w", core.ErrConnectionAborted, err)
		}
	}

	if err := sink.Done(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrConnectionAborted, err)
	}
	return nil
}

// Fail terminates the stream with an ERROR frame.
func (d *Dispatcher) Fail(sink Sink, reason string) error {
	if err := sink.Error(reason); err != nil {
		return fmt.Errorf("%w: %w", core.ErrConnectionAborted, err)
	}
	return nil
}
