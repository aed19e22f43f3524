// Package main provides the command-line front end for VMSim.
// VMSim replays a page reference stream against physical memory using
// demand paging with LRU replacement.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/controller"
	"github.com/sarchlab/vmsim/logging"
	"github.com/sarchlab/vmsim/paging"
	"github.com/sarchlab/vmsim/reference"
	"github.com/sarchlab/vmsim/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds parsed command-line flags.
type options struct {
	cfg     *config.Config
	step    bool
	verify  bool
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("vmsim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.DefaultConfig()
	frames := fs.Int("frames", defaults.Frames, "Number of physical frames")
	sequence := fs.String("sequence", defaults.Sequence, "Comma-separated page reference stream")
	pageSize := fs.Uint64("page-size", defaults.PageSize, "Page size in bytes (display only)")
	logLevel := fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	configPath := fs.String("config", "", "Path to a JSON or YAML simulation config")
	step := fs.Bool("step", false, "Step interactively (Enter or s: step, r: run all, q: quit)")
	verify := fs.Bool("verify", false, "Cross-check every access against the reference model")
	verbose := fs.Bool("v", false, "Verbose output (frames and page table after each step)")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: vmsim [options]\n")
		_, _ = fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags given explicitly override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frames":
			cfg.Frames = *frames
		case "sequence":
			cfg.Sequence = *sequence
		case "page-size":
			cfg.PageSize = *pageSize
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	return &options{
		cfg:     cfg,
		step:    *step,
		verify:  *verify,
		verbose: *verbose,
	}, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	level, levelErr := logging.ParseLevel(opts.cfg.LogLevel)
	logger := logging.New(stderr, level, "vmsim")
	if levelErr != nil {
		logger.Warn(levelErr.Error())
	}

	// Validation runs to completion before any engine exists.
	v, err := opts.cfg.Validated()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Input Error: %v\n", err)
		return 1
	}

	engine := paging.NewEngine(paging.WithLogger(logger))
	ctrl := controller.New(engine, controller.WithLogger(logger))
	if err := ctrl.Reset(v); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	report.PrintLines(stdout, report.Header(v.FrameCount, v.Sequence))
	if opts.verbose {
		_, _ = fmt.Fprintf(stdout, "Page Size: %d bytes (display only)\n", opts.cfg.PageSize)
	}

	if opts.step {
		err = stepInteractive(ctrl, stdin, stdout, opts.verbose)
	} else {
		err = runAll(ctrl, stdout)
	}
	if err != nil {
		logger.Error("simulation aborted", "err", err)
		_, _ = fmt.Fprintf(stderr, "Simulation Error: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintln(stdout)
	snap := ctrl.Snapshot()
	report.PrintFrames(stdout, snap)
	report.PrintSummary(stdout, snap)

	if opts.verify {
		if err := reference.Verify(v, opts.cfg.PageSize); err != nil {
			_, _ = fmt.Fprintf(stderr, "Verification failed: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, "Reference model: agree")
	}

	return 0
}

// runAll replays the whole sequence and narrates each step.
func runAll(ctrl *controller.Controller, stdout io.Writer) error {
	outcomes, err := ctrl.RunAll()
	for _, o := range outcomes {
		_, _ = fmt.Fprintln(stdout)
		report.PrintLines(stdout, report.Narrate(o))
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, report.Footer)
	return nil
}

// stepInteractive reads one command per line until the sequence ends or the
// user quits.
func stepInteractive(ctrl *controller.Controller, stdin io.Reader, stdout io.Writer, verbose bool) error {
	scanner := bufio.NewScanner(stdin)

	for !ctrl.Done() {
		_, _ = fmt.Fprintf(stdout, "[%d/%d] step (Enter/s), run all (r), quit (q): ",
			ctrl.Cursor(), ctrl.Len())
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(stdout)
			return scanner.Err()
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "", "s", "step":
			o, err := ctrl.Step()
			if err != nil {
				return err
			}
			printStep(stdout, o, ctrl, verbose)
		case "r", "run":
			return runAll(ctrl, stdout)
		case "q", "quit":
			return nil
		default:
			_, _ = fmt.Fprintln(stdout, "unknown command")
		}
	}

	_, _ = fmt.Fprintln(stdout)
	_, _ = fmt.Fprintln(stdout, report.Footer)
	return nil
}

// printStep narrates one interactive step followed by the current status.
func printStep(w io.Writer, o controller.StepOutcome, ctrl *controller.Controller, verbose bool) {
	_, _ = fmt.Fprintln(w)
	report.PrintLines(w, report.Narrate(o))

	snap := ctrl.Snapshot()
	_, _ = fmt.Fprintf(w, "Status: %s\n", report.StatusLine(o))
	_, _ = fmt.Fprintln(w, report.RecencyLine(snap.Recency))
	if verbose {
		report.PrintFrames(w, snap)
		report.PrintPageTable(w, snap)
	}
}
