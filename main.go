// Package main provides the entry point for VMSim.
// VMSim is a demand-paging simulator with LRU page replacement.
//
// For the full CLI, use: go run ./cmd/vmsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("VMSim - Virtual Memory Simulator (Paging + LRU)")
	fmt.Println("")
	fmt.Println("Usage: vmsim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -frames     Number of physical frames (default 4)")
	fmt.Println("  -sequence   Comma-separated page reference stream")
	fmt.Println("  -config     Path to a JSON or YAML simulation config")
	fmt.Println("  -step       Step through the sequence interactively")
	fmt.Println("  -verify     Cross-check against the reference model")
	fmt.Println("  -v          Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/vmsim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/sweep' to compare frame counts.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/vmsim' instead.")
	}
}
