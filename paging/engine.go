// Package paging provides a demand-paging engine with LRU replacement.
//
// The engine holds a fixed number of physical frames, a page table that keeps
// history for pages that were evicted, and a recency order of resident pages.
// Each call to Access records exactly one hit or one fault.
package paging

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/vmsim/logging"
)

// NoFrame marks a page table entry that does not reference any frame.
const NoFrame = -1

// AccessResult describes the outcome of a single page reference.
type AccessResult struct {
	// Hit is true if the page was already resident.
	Hit bool
	// Frame is the frame that holds the page after the access.
	Frame int
	// Evicted is the page removed to make room (valid if HasEvicted is true).
	Evicted int
	// HasEvicted is true if the access evicted another page.
	HasEvicted bool
}

// Victim returns the evicted page, if any.
func (r AccessResult) Victim() (int, bool) {
	return r.Evicted, r.HasEvicted
}

// Slot is one physical frame.
type Slot struct {
	Page     int
	Occupied bool
}

// Entry is a page table entry. Entries outlive eviction with Present set to
// false and Frame set to NoFrame.
type Entry struct {
	Frame   int
	Present bool
}

// FrameIndex returns the frame holding the page, if the page is resident.
func (e Entry) FrameIndex() (int, bool) {
	if !e.Present || e.Frame == NoFrame {
		return NoFrame, false
	}
	return e.Frame, true
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for per-access debug records.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine simulates physical memory under demand paging with LRU eviction.
// An Engine is owned by a single caller and is not safe for concurrent use.
type Engine struct {
	frames    []Slot
	occupied  int
	pageTable map[int]*Entry
	recency   *recencyOrder

	faults   uint64
	accesses uint64

	ready  bool
	halted *InconsistencyError

	logger *slog.Logger
}

// NewEngine creates an uninitialized engine. Reset must be called before the
// first access.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reset discards all state and starts over with frameCount empty frames.
func (e *Engine) Reset(frameCount int) error {
	if frameCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidFrameCount, frameCount)
	}

	e.frames = make([]Slot, frameCount)
	e.occupied = 0
	e.pageTable = make(map[int]*Entry)
	e.recency = newRecencyOrder()
	e.faults = 0
	e.accesses = 0
	e.ready = true
	e.halted = nil

	e.logger.Debug("engine reset", "frames", frameCount)

	return nil
}

// Ready returns true once the engine has been reset.
func (e *Engine) Ready() bool {
	return e.ready
}

// FrameCount returns the number of physical frames.
func (e *Engine) FrameCount() int {
	return len(e.frames)
}

// Faults returns the number of page faults so far.
func (e *Engine) Faults() uint64 {
	return e.faults
}

// Accesses returns the total number of page references so far.
func (e *Engine) Accesses() uint64 {
	return e.accesses
}

// Hits returns the number of page hits so far.
func (e *Engine) Hits() uint64 {
	return e.accesses - e.faults
}

// Resident reports whether pageID currently occupies a frame.
func (e *Engine) Resident(pageID int) bool {
	entry, ok := e.pageTable[pageID]
	return ok && entry.Present
}

// Access references pageID, loading it on a fault and evicting the least
// recently used page when every frame is occupied.
func (e *Engine) Access(pageID int) (AccessResult, error) {
	if !e.ready {
		return AccessResult{}, ErrNotInitialized
	}
	if e.halted != nil {
		return AccessResult{}, e.halted
	}

	if entry, ok := e.pageTable[pageID]; ok && entry.Present {
		if !e.recency.touch(pageID) {
			return AccessResult{}, e.halt(pageID, "resident page missing from recency order")
		}
		e.accesses++

		e.logger.Debug("page hit", "page", pageID, "frame", entry.Frame)

		return AccessResult{Hit: true, Frame: entry.Frame}, nil
	}

	result := AccessResult{}

	target, found := e.freeFrame()
	if !found {
		victim, frame, err := e.evict(pageID)
		if err != nil {
			return AccessResult{}, err
		}
		target = frame
		result.Evicted = victim
		result.HasEvicted = true
	}

	e.frames[target] = Slot{Page: pageID, Occupied: true}
	e.occupied++

	entry, ok := e.pageTable[pageID]
	if !ok {
		entry = &Entry{}
		e.pageTable[pageID] = entry
	}
	entry.Frame = target
	entry.Present = true

	e.recency.pushBack(pageID)
	e.accesses++
	e.faults++

	result.Frame = target

	if result.HasEvicted {
		e.logger.Debug("page fault", "page", pageID, "frame", target, "evicted", result.Evicted)
	} else {
		e.logger.Debug("page fault", "page", pageID, "frame", target)
	}

	return result, nil
}

// freeFrame returns the lowest-indexed empty frame.
func (e *Engine) freeFrame() (int, bool) {
	if e.occupied == len(e.frames) {
		return NoFrame, false
	}

	for i, slot := range e.frames {
		if !slot.Occupied {
			return i, true
		}
	}

	return NoFrame, false
}

// evict removes the least recently used page and returns it together with
// the frame it vacated.
func (e *Engine) evict(pageID int) (int, int, error) {
	victim, ok := e.recency.popFront()
	if !ok {
		return 0, NoFrame, e.halt(pageID, "all frames occupied but recency order is empty")
	}

	entry, ok := e.pageTable[victim]
	if !ok || !entry.Present {
		return 0, NoFrame, e.halt(pageID,
			fmt.Sprintf("LRU page %d has no resident page table entry", victim))
	}

	frame := entry.Frame
	if frame < 0 || frame >= len(e.frames) || e.frames[frame] != (Slot{Page: victim, Occupied: true}) {
		return 0, NoFrame, e.halt(pageID,
			fmt.Sprintf("LRU page %d does not occupy frame %d", victim, frame))
	}

	entry.Present = false
	entry.Frame = NoFrame
	e.frames[frame] = Slot{}
	e.occupied--

	return victim, frame, nil
}

// halt records an inconsistency. The failed access is not counted, so the
// counters still describe only the references that completed.
func (e *Engine) halt(pageID int, detail string) error {
	e.halted = &InconsistencyError{PageID: pageID, Detail: detail}
	e.logger.Error("paging engine halted", "page", pageID, "detail", detail)
	return e.halted
}

// CheckInvariants verifies that frames, page table and recency order agree.
func (e *Engine) CheckInvariants() error {
	if !e.ready {
		return ErrNotInitialized
	}
	if len(e.frames) < 1 {
		return fmt.Errorf("%w: no frames", ErrInternalInconsistency)
	}

	present := 0
	for pageID, entry := range e.pageTable {
		if !entry.Present {
			if entry.Frame != NoFrame {
				return fmt.Errorf("%w: absent page %d still references frame %d",
					ErrInternalInconsistency, pageID, entry.Frame)
			}
			continue
		}

		present++
		if entry.Frame < 0 || entry.Frame >= len(e.frames) {
			return fmt.Errorf("%w: page %d references frame %d out of range",
				ErrInternalInconsistency, pageID, entry.Frame)
		}
		if slot := e.frames[entry.Frame]; !slot.Occupied || slot.Page != pageID {
			return fmt.Errorf("%w: frame %d does not hold page %d",
				ErrInternalInconsistency, entry.Frame, pageID)
		}
		if !e.recency.contains(pageID) {
			return fmt.Errorf("%w: page %d missing from recency order",
				ErrInternalInconsistency, pageID)
		}
	}

	occupied := 0
	for _, slot := range e.frames {
		if slot.Occupied {
			occupied++
		}
	}

	if occupied != e.occupied {
		return fmt.Errorf("%w: %d frames occupied, counter says %d",
			ErrInternalInconsistency, occupied, e.occupied)
	}
	if present != occupied || e.recency.len() != occupied {
		return fmt.Errorf("%w: %d present entries, %d occupied frames, %d in recency order",
			ErrInternalInconsistency, present, occupied, e.recency.len())
	}
	if e.faults > e.accesses {
		return fmt.Errorf("%w: %d faults exceed %d accesses",
			ErrInternalInconsistency, e.faults, e.accesses)
	}

	return nil
}
