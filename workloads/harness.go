package workloads

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/controller"
	"github.com/sarchlab/vmsim/logging"
	"github.com/sarchlab/vmsim/paging"
	"github.com/sarchlab/vmsim/reference"
)

// Result holds the outcome of one workload at one frame count.
type Result struct {
	// Workload is the workload name.
	Workload string `json:"workload"`

	// Frames is the number of physical frames simulated.
	Frames int `json:"frames"`

	// Accesses is the length of the reference stream.
	Accesses uint64 `json:"accesses"`

	// Faults is the number of page faults.
	Faults uint64 `json:"faults"`

	// Hits is the number of page hits.
	Hits uint64 `json:"hits"`

	// Evictions is the number of faults that replaced a resident page.
	Evictions uint64 `json:"evictions"`

	// FaultRate is faults per access.
	FaultRate float64 `json:"fault_rate"`

	// Verified is true if the reference model agreed on every access.
	Verified bool `json:"verified,omitempty"`

	// RunID identifies the controller run.
	RunID string `json:"run_id"`

	// WallTime is the time taken to replay the stream.
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the sweep harness.
type HarnessConfig struct {
	// MinFrames is the smallest frame count simulated.
	MinFrames int

	// MaxFrames is the largest frame count simulated.
	MaxFrames int

	// Verify cross-checks every run against the reference model.
	Verify bool

	// PageSize is passed to the reference model.
	PageSize uint64

	// Output is where to write results (default: os.Stdout).
	Output io.Writer

	// Logger receives per-run records (default: discard).
	Logger *slog.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MinFrames: 1,
		MaxFrames: 8,
		Verify:    false,
		PageSize:  1024,
		Output:    os.Stdout,
	}
}

// Harness replays workloads across frame counts.
type Harness struct {
	config    HarnessConfig
	workloads []Workload
}

// NewHarness creates a new harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	return &Harness{
		config:    config,
		workloads: []Workload{},
	}
}

// AddWorkload adds a workload to the harness.
func (h *Harness) AddWorkload(w Workload) {
	h.workloads = append(h.workloads, w)
}

// AddWorkloads adds multiple workloads to the harness.
func (h *Harness) AddWorkloads(workloads []Workload) {
	h.workloads = append(h.workloads, workloads...)
}

// RunAll replays every workload at every frame count in range, in order.
func (h *Harness) RunAll() ([]Result, error) {
	if h.config.MinFrames < 1 || h.config.MaxFrames < h.config.MinFrames {
		return nil, fmt.Errorf("%w: frame range %d..%d",
			config.ErrInvalidConfig, h.config.MinFrames, h.config.MaxFrames)
	}

	results := make([]Result, 0, len(h.workloads)*(h.config.MaxFrames-h.config.MinFrames+1))
	for _, w := range h.workloads {
		for frames := h.config.MinFrames; frames <= h.config.MaxFrames; frames++ {
			result, err := h.runWorkload(w, frames)
			if err != nil {
				return results, fmt.Errorf("workload %s with %d frames: %w", w.Name, frames, err)
			}
			results = append(results, result)
		}
	}

	return results, nil
}

func (h *Harness) runWorkload(w Workload, frames int) (Result, error) {
	v := config.Validated{FrameCount: frames, Sequence: w.Sequence}

	ctrl := controller.New(paging.NewEngine())
	if err := ctrl.Reset(v); err != nil {
		return Result{}, err
	}

	start := time.Now()
	outcomes, err := ctrl.RunAll()
	wallTime := time.Since(start)
	if err != nil {
		return Result{}, err
	}

	var evictions uint64
	for _, o := range outcomes {
		if o.Result.HasEvicted {
			evictions++
		}
	}

	stats := ctrl.Stats()
	result := Result{
		Workload:  w.Name,
		Frames:    frames,
		Accesses:  stats.Accesses,
		Faults:    stats.Faults,
		Hits:      stats.Hits,
		Evictions: evictions,
		FaultRate: stats.FaultRate(),
		RunID:     ctrl.RunID(),
		WallTime:  wallTime,
	}

	if h.config.Verify {
		if err := reference.Verify(v, h.config.PageSize); err != nil {
			return Result{}, err
		}
		result.Verified = true
	}

	h.config.Logger.Debug("workload replayed",
		"workload", w.Name,
		"frames", frames,
		"faults", result.Faults,
		"run", result.RunID)

	return result, nil
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== VMSim LRU Sweep Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	current := ""
	for _, r := range results {
		if r.Workload != current {
			if current != "" {
				_, _ = fmt.Fprintln(h.config.Output, "")
			}
			current = r.Workload
			_, _ = fmt.Fprintf(h.config.Output, "Workload: %s (%d accesses)\n", r.Workload, r.Accesses)
			_, _ = fmt.Fprintln(h.config.Output, "  Frames  Faults  Hits  Evictions  Fault Rate")
		}
		_, _ = fmt.Fprintf(h.config.Output, "  %6d  %6d  %4d  %9d  %9.1f%%\n",
			r.Frames, r.Faults, r.Hits, r.Evictions, 100*r.FaultRate)
	}
	_, _ = fmt.Fprintln(h.config.Output, "")
}

// PrintCSV outputs results in CSV format.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "workload,frames,accesses,faults,hits,evictions,fault_rate")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%d,%d,%.4f\n",
			r.Workload,
			r.Frames,
			r.Accesses,
			r.Faults,
			r.Hits,
			r.Evictions,
			r.FaultRate,
		)
	}
}

// Report is the JSON document written by PrintJSON.
type Report struct {
	Timestamp string   `json:"timestamp"`
	MinFrames int      `json:"min_frames"`
	MaxFrames int      `json:"max_frames"`
	Verified  bool     `json:"verified"`
	Results   []Result `json:"results"`
}

// PrintJSON outputs results as an indented JSON report.
func (h *Harness) PrintJSON(results []Result) error {
	report := Report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		MinFrames: h.config.MinFrames,
		MaxFrames: h.config.MaxFrames,
		Verified:  h.config.Verify,
		Results:   results,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
