// Package workloads provides named page reference streams and a harness that
// replays them across a range of frame counts.
package workloads

// Workload is a named page reference stream.
type Workload struct {
	// Name identifies the workload.
	Name string
	// Description explains the access pattern.
	Description string
	// Sequence is the page reference stream.
	Sequence []int
}

// GetWorkloads returns the standard set of reference streams.
func GetWorkloads() []Workload {
	return []Workload{
		textbook(),
		sequentialLoop(),
		locality(),
		singlePage(),
		alternating(),
	}
}

// Lookup returns the workload with the given name.
func Lookup(name string) (Workload, bool) {
	for _, w := range GetWorkloads() {
		if w.Name == name {
			return w, true
		}
	}
	return Workload{}, false
}

// textbook is the classic stream used to demonstrate Belady's anomaly for
// FIFO. LRU shows no anomaly on it.
func textbook() Workload {
	return Workload{
		Name:        "belady",
		Description: "12 references over 5 pages - the classic replacement example",
		Sequence:    []int{1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5},
	}
}

// sequentialLoop cycles over more pages than small memories can hold, the
// worst case for LRU.
func sequentialLoop() Workload {
	seq := make([]int, 0, 40)
	for i := 0; i < 5; i++ {
		for p := 0; p < 8; p++ {
			seq = append(seq, p)
		}
	}

	return Workload{
		Name:        "sequential_loop",
		Description: "5 passes over pages 0-7 - every access faults until all 8 fit",
		Sequence:    seq,
	}
}

// locality revisits a small hot set with occasional cold pages.
func locality() Workload {
	hot := []int{0, 1, 2}
	seq := make([]int, 0, 48)
	for i := 0; i < 12; i++ {
		seq = append(seq, hot[i%len(hot)], hot[(i+1)%len(hot)], hot[(i+2)%len(hot)])
		seq = append(seq, 10+i)
	}

	return Workload{
		Name:        "locality",
		Description: "hot set of 3 pages interleaved with 12 cold pages",
		Sequence:    seq,
	}
}

func singlePage() Workload {
	seq := make([]int, 16)
	for i := range seq {
		seq[i] = 7
	}

	return Workload{
		Name:        "single_page",
		Description: "16 references to one page - one compulsory fault",
		Sequence:    seq,
	}
}

func alternating() Workload {
	seq := make([]int, 0, 20)
	for i := 0; i < 10; i++ {
		seq = append(seq, 1, 2)
	}

	return Workload{
		Name:        "alternating",
		Description: "pages 1 and 2 in turn - thrashes with one frame",
		Sequence:    seq,
	}
}
