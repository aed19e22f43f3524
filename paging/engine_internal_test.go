package paging

import (
	"errors"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Engine invariant violations", func() {
	var e *Engine

	g.BeforeEach(func() {
		e = NewEngine()
		Expect(e.Reset(2)).To(Succeed())
		_, err := e.Access(1)
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Access(2)
		Expect(err).NotTo(HaveOccurred())
	})

	g.It("should halt when a fault finds full frames and an empty recency order", func() {
		e.recency = newRecencyOrder()

		_, err := e.Access(3)
		Expect(err).To(MatchError(ErrInternalInconsistency))

		var inconsistency *InconsistencyError
		Expect(errors.As(err, &inconsistency)).To(BeTrue())
		Expect(inconsistency.PageID).To(Equal(3))

		// Frames must not have been touched.
		Expect(e.frames).To(Equal([]Slot{{Page: 1, Occupied: true}, {Page: 2, Occupied: true}}))
	})

	g.It("should keep refusing accesses once halted", func() {
		e.recency = newRecencyOrder()
		_, first := e.Access(3)
		Expect(first).To(HaveOccurred())

		_, second := e.Access(1)
		Expect(second).To(BeIdenticalTo(first))
	})

	g.It("should not count a fault that halts the engine", func() {
		e.recency = newRecencyOrder()
		_, err := e.Access(3)
		Expect(err).To(HaveOccurred())

		Expect(e.Accesses()).To(Equal(uint64(2)))
		Expect(e.Faults()).To(Equal(uint64(2)))
		Expect(e.Hits()).To(BeZero())
	})

	g.It("should not count a hit that halts the engine", func() {
		e.recency = newRecencyOrder()
		e.recency.pushBack(2)
		_, err := e.Access(1)
		Expect(err).To(HaveOccurred())

		Expect(e.Accesses()).To(Equal(uint64(2)))
		Expect(e.Hits()).To(BeZero())
	})

	g.It("should halt on a hit for a page missing from the recency order", func() {
		e.recency = newRecencyOrder()
		e.recency.pushBack(2)

		_, err := e.Access(1)
		Expect(err).To(MatchError(ErrInternalInconsistency))
	})

	g.It("should halt when the LRU page does not occupy its frame", func() {
		e.frames[0] = Slot{}

		_, err := e.Access(3)
		Expect(err).To(MatchError(ErrInternalInconsistency))
	})

	g.It("should report corrupted state from CheckInvariants", func() {
		Expect(e.CheckInvariants()).To(Succeed())

		e.pageTable[2].Present = false
		Expect(e.CheckInvariants()).To(MatchError(ErrInternalInconsistency))
	})

	g.It("should recover after reset", func() {
		e.recency = newRecencyOrder()
		_, err := e.Access(3)
		Expect(err).To(HaveOccurred())

		Expect(e.Reset(2)).To(Succeed())
		result, err := e.Access(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Frame).To(Equal(0))
	})
})
