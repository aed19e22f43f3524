// Package controller drives a paging engine through an access sequence one
// reference at a time.
package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/logging"
	"github.com/sarchlab/vmsim/paging"
)

// StepOutcome is the result of one Step call.
type StepOutcome struct {
	// Finished is true if the sequence was already exhausted. No other field
	// is set in that case.
	Finished bool
	// Index is the zero-based position of the reference in the sequence.
	Index int
	// PageID is the page that was referenced.
	PageID int
	// Result is the engine's answer for the reference.
	Result paging.AccessResult
}

// Stats summarizes a run.
type Stats struct {
	Accesses uint64
	Faults   uint64
	Hits     uint64
}

// FaultRate returns faults per access, or 0 before the first access.
func (s Stats) FaultRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Faults) / float64(s.Accesses)
}

// Snapshot is the engine state plus the controller's position.
type Snapshot struct {
	paging.Snapshot
	// Cursor is the number of references processed.
	Cursor int
	// Length is the length of the access sequence.
	Length int
	// RunID identifies the run started by the last Reset.
	RunID string
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets the logger used for step records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the cursor into an access sequence and feeds references to
// a paging engine. A Controller is not safe for concurrent use.
type Controller struct {
	engine   *paging.Engine
	sequence []int
	cursor   int
	ready    bool
	runID    xid.ID

	logger *slog.Logger
}

// New creates a controller for engine. Reset must be called before stepping.
func New(engine *paging.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Engine returns the underlying paging engine.
func (c *Controller) Engine() *paging.Engine {
	return c.engine
}

// Reset replaces all state with a fresh run over v.
func (c *Controller) Reset(v config.Validated) error {
	if err := c.engine.Reset(v.FrameCount); err != nil {
		return fmt.Errorf("failed to reset engine: %w", err)
	}

	c.sequence = append([]int(nil), v.Sequence...)
	c.cursor = 0
	c.ready = true
	c.runID = xid.New()

	c.logger.Info("simulation initialized",
		"run", c.runID.String(),
		"frames", v.FrameCount,
		"sequence", config.FormatSequence(c.sequence))

	return nil
}

// Step processes the next reference. Once the sequence is exhausted it
// returns a Finished outcome without touching the engine.
func (c *Controller) Step() (StepOutcome, error) {
	if !c.ready {
		return StepOutcome{}, paging.ErrNotInitialized
	}
	if c.cursor >= len(c.sequence) {
		return StepOutcome{Finished: true}, nil
	}

	pageID := c.sequence[c.cursor]
	result, err := c.engine.Access(pageID)
	if err != nil {
		c.logger.Error("step failed",
			"run", c.runID.String(), "step", c.cursor+1, "page", pageID, "err", err)
		return StepOutcome{}, fmt.Errorf("step %d: %w", c.cursor+1, err)
	}

	outcome := StepOutcome{Index: c.cursor, PageID: pageID, Result: result}
	c.cursor++

	c.logger.Debug("step",
		"run", c.runID.String(),
		"step", c.cursor,
		"page", pageID,
		"hit", result.Hit,
		"frame", result.Frame)

	if c.cursor == len(c.sequence) {
		c.logger.Info("end of access sequence",
			"run", c.runID.String(),
			"faults", c.engine.Faults(),
			"accesses", c.engine.Accesses())
	}

	return outcome, nil
}

// RunAll steps until the sequence is exhausted and returns every outcome in
// order. It returns an empty slice if nothing is left to run.
func (c *Controller) RunAll() ([]StepOutcome, error) {
	return c.RunAllContext(context.Background())
}

// RunAllContext is RunAll with a cancellation check between steps. On
// cancellation it returns the outcomes produced so far and ctx.Err().
func (c *Controller) RunAllContext(ctx context.Context) ([]StepOutcome, error) {
	if !c.ready {
		return nil, paging.ErrNotInitialized
	}

	outcomes := make([]StepOutcome, 0, len(c.sequence)-c.cursor)
	for {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome, err := c.Step()
		if err != nil {
			return outcomes, err
		}
		if outcome.Finished {
			return outcomes, nil
		}

		outcomes = append(outcomes, outcome)
	}
}

// Cursor returns the number of references processed.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Len returns the length of the access sequence.
func (c *Controller) Len() int {
	return len(c.sequence)
}

// Done returns true if every reference has been processed.
func (c *Controller) Done() bool {
	return c.ready && c.cursor >= len(c.sequence)
}

// Sequence returns a copy of the access sequence.
func (c *Controller) Sequence() []int {
	return append([]int(nil), c.sequence...)
}

// RunID returns the identifier of the current run, or "" before Reset.
func (c *Controller) RunID() string {
	if !c.ready {
		return ""
	}
	return c.runID.String()
}

// Stats returns the counters of the current run.
func (c *Controller) Stats() Stats {
	return Stats{
		Accesses: c.engine.Accesses(),
		Faults:   c.engine.Faults(),
		Hits:     c.engine.Hits(),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Snapshot: c.engine.Snapshot(),
		Cursor:   c.cursor,
		Length:   len(c.sequence),
		RunID:    c.RunID(),
	}
}
