package paging

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	// FrameCount is the number of physical frames.
	FrameCount int
	// Frames lists frame contents by index.
	Frames []Slot
	// PageTable holds every page seen since the last reset.
	PageTable map[int]Entry
	// Recency lists resident pages, least recently used first.
	Recency []int
	// Faults is the number of page faults.
	Faults uint64
	// Accesses is the total number of page references.
	Accesses uint64
}

// Hits returns the number of page hits.
func (s Snapshot) Hits() uint64 {
	return s.Accesses - s.Faults
}

// Resident returns the pages held by occupied frames keyed by frame index.
func (s Snapshot) Resident() map[int]int {
	out := make(map[int]int, len(s.Frames))
	for i, slot := range s.Frames {
		if slot.Occupied {
			out[i] = slot.Page
		}
	}
	return out
}

// Snapshot returns a deep copy of the current state. The zero Snapshot is
// returned before the first reset.
func (e *Engine) Snapshot() Snapshot {
	if !e.ready {
		return Snapshot{}
	}

	frames := make([]Slot, len(e.frames))
	copy(frames, e.frames)

	table := make(map[int]Entry, len(e.pageTable))
	for pageID, entry := range e.pageTable {
		table[pageID] = *entry
	}

	return Snapshot{
		FrameCount: len(e.frames),
		Frames:     frames,
		PageTable:  table,
		Recency:    e.recency.pages(),
		Faults:     e.faults,
		Accesses:   e.accesses,
	}
}
