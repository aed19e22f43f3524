// Package report renders simulation state and step outcomes as text.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/controller"
)

// Header returns the lines announcing a fresh simulation.
func Header(frames int, sequence []int) []string {
	return []string{
		"--- Simulation Initialized ---",
		fmt.Sprintf("RAM Frames: %d", frames),
		fmt.Sprintf("Access Sequence: [%s]", config.FormatSequence(sequence)),
	}
}

// Footer is the line printed once the sequence is exhausted.
const Footer = "--- End of Access Sequence ---"

// Narrate describes one step the way an event log would.
func Narrate(o controller.StepOutcome) []string {
	if o.Finished {
		return []string{Footer}
	}

	r := o.Result
	lines := []string{fmt.Sprintf("Step %d: Accessing Page %d", o.Index+1, o.PageID)}

	if r.Hit {
		return append(lines, fmt.Sprintf("  Page %d found in Frame %d. (Hit)", o.PageID, r.Frame))
	}

	lines = append(lines, fmt.Sprintf("  Page %d not in RAM. (Page Fault)", o.PageID))
	if victim, ok := r.Victim(); ok {
		lines = append(lines,
			fmt.Sprintf("  RAM full. Evicting Page %d (LRU) from Frame %d.", victim, r.Frame))
	} else {
		lines = append(lines, fmt.Sprintf("  Found empty Frame %d.", r.Frame))
	}

	return append(lines, fmt.Sprintf("  Loading Page %d into Frame %d.", o.PageID, r.Frame))
}

// StatusLine summarizes one step in a single line.
func StatusLine(o controller.StepOutcome) string {
	if o.Finished {
		return "Finished."
	}
	if o.Result.Hit {
		return fmt.Sprintf("Accessing Page %d -> Page Hit!", o.PageID)
	}
	return fmt.Sprintf("Accessing Page %d -> Page Fault!", o.PageID)
}

// RecencyLine renders the recency order, least recently used first.
func RecencyLine(recency []int) string {
	return fmt.Sprintf("LRU Queue (<- Least | Most ->): [%s]", config.FormatSequence(recency))
}

// PrintLines writes each line followed by a newline.
func PrintLines(w io.Writer, lines []string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
}

// PrintFrames writes one row per physical frame.
func PrintFrames(w io.Writer, snap controller.Snapshot) {
	_, _ = fmt.Fprintln(w, "Physical Memory (RAM Frames)")
	for i, slot := range snap.Frames {
		content := "Empty"
		if slot.Occupied {
			content = fmt.Sprintf("Page %d", slot.Page)
		}
		_, _ = fmt.Fprintf(w, "  Frame %-3d %s\n", i, content)
	}
}

// PrintPageTable writes every page seen since the last reset, in page order.
func PrintPageTable(w io.Writer, snap controller.Snapshot) {
	pages := make([]int, 0, len(snap.PageTable))
	for page := range snap.PageTable {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	_, _ = fmt.Fprintln(w, "Page Table")
	for _, page := range pages {
		if frame, ok := snap.PageTable[page].FrameIndex(); ok {
			_, _ = fmt.Fprintf(w, "  Page %-4d present  frame %d\n", page, frame)
		} else {
			_, _ = fmt.Fprintf(w, "  Page %-4d absent\n", page)
		}
	}
}

// PrintSummary writes counters and the recency order.
func PrintSummary(w io.Writer, snap controller.Snapshot) {
	_, _ = fmt.Fprintf(w, "Page Faults: %d\n", snap.Faults)
	_, _ = fmt.Fprintf(w, "Total Accesses: %d\n", snap.Accesses)
	if snap.Accesses > 0 {
		_, _ = fmt.Fprintf(w, "Fault Rate: %.1f%%\n", 100*float64(snap.Faults)/float64(snap.Accesses))
	}
	_, _ = fmt.Fprintf(w, "Progress: %d/%d\n", snap.Cursor, snap.Length)
	_, _ = fmt.Fprintln(w, RecencyLine(snap.Recency))
}
