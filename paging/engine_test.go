package paging_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/paging"
)

// replay feeds pages through the engine, checking invariants after each one.
func replay(e *paging.Engine, pages ...int) []paging.AccessResult {
	results := make([]paging.AccessResult, 0, len(pages))
	for _, p := range pages {
		r, err := e.Access(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.CheckInvariants()).To(Succeed())
		results = append(results, r)
	}
	return results
}

var _ = Describe("Engine", func() {
	var e *paging.Engine

	BeforeEach(func() {
		e = paging.NewEngine()
	})

	Describe("Uninitialized engine", func() {
		It("should reject accesses before reset", func() {
			_, err := e.Access(1)
			Expect(err).To(MatchError(paging.ErrNotInitialized))
			Expect(e.Ready()).To(BeFalse())
			Expect(e.Accesses()).To(BeZero())
		})

		It("should return an empty snapshot", func() {
			Expect(e.Snapshot().Frames).To(BeEmpty())
		})

		It("should reject a non-positive frame count", func() {
			Expect(e.Reset(0)).To(MatchError(paging.ErrInvalidFrameCount))
			Expect(e.Reset(-3)).To(MatchError(paging.ErrInvalidFrameCount))
			Expect(e.Ready()).To(BeFalse())
		})
	})

	Describe("Reset", func() {
		It("should create empty frames and zero counters", func() {
			Expect(e.Reset(3)).To(Succeed())

			snap := e.Snapshot()
			Expect(snap.FrameCount).To(Equal(3))
			Expect(snap.Frames).To(Equal([]paging.Slot{{}, {}, {}}))
			Expect(snap.PageTable).To(BeEmpty())
			Expect(snap.Recency).To(BeEmpty())
			Expect(snap.Faults).To(BeZero())
			Expect(snap.Accesses).To(BeZero())
		})

		It("should discard all prior state", func() {
			Expect(e.Reset(2)).To(Succeed())
			replay(e, 1, 2, 3)

			Expect(e.Reset(5)).To(Succeed())
			snap := e.Snapshot()
			Expect(snap.FrameCount).To(Equal(5))
			Expect(snap.PageTable).To(BeEmpty())
			Expect(e.Faults()).To(BeZero())
			Expect(e.Resident(3)).To(BeFalse())
		})
	})

	Describe("Hits", func() {
		BeforeEach(func() {
			Expect(e.Reset(3)).To(Succeed())
		})

		It("should report the frame and move the page to most recently used", func() {
			replay(e, 7, 8, 9)

			r := replay(e, 7)[0]
			Expect(r.Hit).To(BeTrue())
			Expect(r.Frame).To(Equal(0))
			_, evicted := r.Victim()
			Expect(evicted).To(BeFalse())

			Expect(e.Snapshot().Recency).To(Equal([]int{8, 9, 7}))
			Expect(e.Faults()).To(Equal(uint64(3)))
			Expect(e.Hits()).To(Equal(uint64(1)))
		})
	})

	Describe("Faults", func() {
		It("should fill the lowest free frame first", func() {
			Expect(e.Reset(3)).To(Succeed())

			results := replay(e, 4, 5, 6)
			for i, r := range results {
				Expect(r.Hit).To(BeFalse())
				Expect(r.Frame).To(Equal(i))
				Expect(r.HasEvicted).To(BeFalse())
			}
		})

		It("should only evict when every frame is occupied", func() {
			Expect(e.Reset(2)).To(Succeed())

			results := replay(e, 1, 2, 3)
			Expect(results[0].HasEvicted).To(BeFalse())
			Expect(results[1].HasEvicted).To(BeFalse())
			Expect(results[2].HasEvicted).To(BeTrue())
			Expect(results[2].Evicted).To(Equal(1))
			Expect(results[2].Frame).To(Equal(0))
		})

		It("should keep page table history after eviction", func() {
			Expect(e.Reset(1)).To(Succeed())
			replay(e, 1, 2)

			entry, ok := e.Snapshot().PageTable[1]
			Expect(ok).To(BeTrue())
			Expect(entry.Present).To(BeFalse())
			Expect(entry.Frame).To(Equal(paging.NoFrame))
			_, resident := entry.FrameIndex()
			Expect(resident).To(BeFalse())
		})

		It("should fault again on an evicted page", func() {
			Expect(e.Reset(1)).To(Succeed())
			results := replay(e, 1, 2, 1)

			Expect(results[2].Hit).To(BeFalse())
			Expect(results[2].Evicted).To(Equal(2))
			frame, ok := e.Snapshot().PageTable[1].FrameIndex()
			Expect(ok).To(BeTrue())
			Expect(frame).To(Equal(0))
		})
	})

	Describe("Reference scenarios", func() {
		It("should replay the four-frame textbook sequence", func() {
			Expect(e.Reset(4)).To(Succeed())
			results := replay(e, 1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5)

			var faultAt, hitAt []int
			for i, r := range results {
				if r.Hit {
					hitAt = append(hitAt, i+1)
				} else {
					faultAt = append(faultAt, i+1)
				}
			}
			Expect(faultAt).To(Equal([]int{1, 2, 3, 4, 7, 10, 11, 12}))
			Expect(hitAt).To(Equal([]int{5, 6, 8, 9}))

			Expect(results[6].Evicted).To(Equal(3))
			Expect(results[9].Evicted).To(Equal(4))
			Expect(results[10].Evicted).To(Equal(5))
			Expect(results[11].Evicted).To(Equal(1))

			snap := e.Snapshot()
			Expect(snap.Resident()).To(Equal(map[int]int{0: 5, 1: 2, 2: 4, 3: 3}))
			Expect(snap.Recency).To(Equal([]int{2, 3, 4, 5}))
			Expect(snap.Faults).To(Equal(uint64(8)))
			Expect(snap.Hits()).To(Equal(uint64(4)))
		})

		It("should fault on every access with a single frame", func() {
			Expect(e.Reset(1)).To(Succeed())
			results := replay(e, 1, 2, 1, 3)

			for _, r := range results {
				Expect(r.Hit).To(BeFalse())
				Expect(r.Frame).To(Equal(0))
			}

			snap := e.Snapshot()
			Expect(snap.Faults).To(Equal(uint64(4)))
			Expect(snap.Hits()).To(BeZero())
			Expect(snap.Resident()).To(Equal(map[int]int{0: 3}))
			Expect(snap.Recency).To(Equal([]int{3}))
		})
	})

	Describe("Snapshot", func() {
		It("should not alias engine state", func() {
			Expect(e.Reset(2)).To(Succeed())
			replay(e, 1, 2)

			snap := e.Snapshot()
			snap.Frames[0] = paging.Slot{Page: 99, Occupied: true}
			snap.Recency[0] = 99
			snap.PageTable[1] = paging.Entry{Frame: 1}

			fresh := e.Snapshot()
			Expect(fresh.Frames[0].Page).To(Equal(1))
			Expect(fresh.Recency).To(Equal([]int{1, 2}))
			Expect(fresh.PageTable[1]).To(Equal(paging.Entry{Frame: 0, Present: true}))
		})
	})
})
