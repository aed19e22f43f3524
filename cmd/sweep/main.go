// Command sweep replays the built-in workloads across a range of frame
// counts and reports fault counts.
//
// Usage:
//
//	go run ./cmd/sweep [flags]
//
// Flags:
//
//	-min-frames  Smallest frame count (default: 1)
//	-max-frames  Largest frame count (default: 8)
//	-workload    Only run the named workload
//	-csv         Output results in CSV format
//	-json        Output results as a JSON report
//	-verify      Cross-check every run against the reference model
//
// Example:
//
//	# Fault counts for the classic example with 1 to 6 frames
//	go run ./cmd/sweep -workload belady -max-frames 6
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/vmsim/logging"
	"github.com/sarchlab/vmsim/workloads"
)

func main() {
	minFrames := flag.Int("min-frames", 1, "Smallest frame count")
	maxFrames := flag.Int("max-frames", 8, "Largest frame count")
	only := flag.String("workload", "", "Only run the named workload")
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	verify := flag.Bool("verify", false, "Cross-check every run against the reference model")
	verbose := flag.Bool("v", false, "Log each run")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	config := workloads.DefaultConfig()
	config.MinFrames = *minFrames
	config.MaxFrames = *maxFrames
	config.Verify = *verify
	config.Output = os.Stdout
	config.Logger = logging.New(os.Stderr, level, "sweep")

	harness := workloads.NewHarness(config)
	if *only != "" {
		w, ok := workloads.Lookup(*only)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown workload: %s\n", *only)
			os.Exit(1)
		}
		harness.AddWorkload(w)
	} else {
		harness.AddWorkloads(workloads.GetWorkloads())
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
		if *verify {
			fmt.Println("All runs agree with the reference model.")
		}
	}
}
