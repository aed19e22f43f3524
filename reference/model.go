// Package reference provides an independent LRU paging model built on Akita
// memory components, used to cross-check the paging engine.
//
// Physical memory is modeled as a fully associative Akita cache directory: a
// single set with one way per frame and one block per page. The LRU victim
// finder prefers invalid blocks, lowest way first, and otherwise evicts the
// head of the set's LRU queue. Translations are kept in an Akita page table.
package reference

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
	"github.com/sarchlab/akita/v4/mem/vm"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/paging"
)

// ErrUnaddressable is returned for pages whose address does not fit in 64
// bits at the model's page size.
var ErrUnaddressable = errors.New("page is outside the reference address space")

// modelPID is the single address space the model translates for.
const modelPID vm.PID = 1

// Statistics holds model counters.
type Statistics struct {
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Model replays page references through an Akita directory.
type Model struct {
	frames   int
	log2Page uint64

	directory *akitacache.DirectoryImpl
	pageTable vm.PageTable
	mapped    map[int]bool

	stats Statistics
}

// NewModel creates a model with the given number of frames. The page size
// only scales addresses; it is rounded up to a power of two and a zero value
// is treated as one byte. Page sizes above config.MaxPageSize are rejected.
func NewModel(frames int, pageSize uint64) (*Model, error) {
	if pageSize > config.MaxPageSize {
		return nil, fmt.Errorf("%w: page size %d exceeds %d",
			config.ErrInvalidConfig, pageSize, config.MaxPageSize)
	}

	log2Page := uint64(0)
	if pageSize > 1 {
		log2Page = uint64(bits.Len64(pageSize - 1))
	}

	m := &Model{
		frames:   frames,
		log2Page: log2Page,
	}
	m.Reset()

	return m, nil
}

// Reset empties all frames and forgets every translation.
func (m *Model) Reset() {
	m.directory = akitacache.NewDirectory(
		1,
		m.frames,
		int(m.PageSize()),
		akitacache.NewLRUVictimFinder(),
	)
	m.pageTable = vm.NewPageTable(m.log2Page)
	m.mapped = make(map[int]bool)
	m.stats = Statistics{}
}

// PageSize returns the effective page size in bytes.
func (m *Model) PageSize() uint64 {
	return 1 << m.log2Page
}

// Stats returns model statistics.
func (m *Model) Stats() Statistics {
	return m.stats
}

func (m *Model) address(pageID int) uint64 {
	return uint64(pageID) << m.log2Page
}

func (m *Model) pageOf(addr uint64) int {
	return int(addr >> m.log2Page)
}

// Addressable reports whether pageID maps to an address without overflow.
func (m *Model) Addressable(pageID int) bool {
	return pageID >= 0 && uint64(pageID) <= math.MaxUint64>>m.log2Page
}

// Access references pageID and reports the outcome in engine terms.
func (m *Model) Access(pageID int) (paging.AccessResult, error) {
	if !m.Addressable(pageID) {
		return paging.AccessResult{}, fmt.Errorf("%w: page %d with %d-byte pages",
			ErrUnaddressable, pageID, m.PageSize())
	}

	m.stats.Accesses++
	addr := m.address(pageID)

	block := m.directory.Lookup(0, addr)
	if block != nil && block.IsValid {
		m.stats.Hits++
		m.directory.Visit(block) // Update LRU

		return paging.AccessResult{Hit: true, Frame: block.WayID}, nil
	}

	m.stats.Misses++
	victim := m.directory.FindVictim(addr)
	result := paging.AccessResult{Frame: victim.WayID}

	if victim.IsValid {
		m.stats.Evictions++
		result.Evicted = m.pageOf(victim.Tag)
		result.HasEvicted = true
		m.unmap(result.Evicted)
	}

	victim.Tag = addr
	victim.IsValid = true
	m.directory.Visit(victim)

	m.mapTo(pageID, victim.WayID)

	return result, nil
}

func (m *Model) mapTo(pageID, frame int) {
	page := vm.Page{
		PID:      modelPID,
		VAddr:    m.address(pageID),
		PAddr:    uint64(frame) << m.log2Page,
		PageSize: m.PageSize(),
		Valid:    true,
	}

	if m.mapped[pageID] {
		m.pageTable.Update(page)
		return
	}

	m.pageTable.Insert(page)
	m.mapped[pageID] = true
}

func (m *Model) unmap(pageID int) {
	page, found := m.pageTable.Find(modelPID, m.address(pageID))
	if !found {
		return
	}

	page.Valid = false
	m.pageTable.Update(page)
}

// Translate returns the physical address of the frame holding pageID.
func (m *Model) Translate(pageID int) (uint64, bool) {
	if !m.Addressable(pageID) {
		return 0, false
	}
	page, found := m.pageTable.Find(modelPID, m.address(pageID))
	if !found || !page.Valid {
		return 0, false
	}
	return page.PAddr, true
}

// Frames returns frame contents indexed by way.
func (m *Model) Frames() []paging.Slot {
	slots := make([]paging.Slot, m.frames)
	for _, set := range m.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				slots[block.WayID] = paging.Slot{Page: m.pageOf(block.Tag), Occupied: true}
			}
		}
	}
	return slots
}
