package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"sqlseg/config"
	"sqlseg/internal/adapter/fs"
	"sqlseg/internal/segment"
)

func main() {
	scriptPath := flag.String("f", "", "PL/SQL script to segment")
	budget := flag.Int("budget", 0, "Block size budget in characters (overrides config)")
	configDir := flag.String("dir", ".", "Directory to load config from")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -f script.sql [-budget 1200]")
		fmt.Println("\nReports:")
		fmt.Println("  1. Block size distribution against the budget")
		fmt.Println("  2. Budget compliance (oversized blocks and why)")
		fmt.Println("  3. Block type breakdown")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	opts := segment.Options{
		MaxChunkSize:  cfg.Segment.MaxChunkSize,
		SmallFragment: cfg.Segment.SmallFragment,
		MergeCeiling:  cfg.Segment.MergeCeiling,
	}
	if *budget > 0 {
		opts.MaxChunkSize = *budget
	}
	seg := segment.New(opts)

	script, err := fs.ReadScript(*scriptPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	blocks := seg.Segment(script)
	if len(blocks) == 0 {
		fmt.Println("No blocks produced (empty or comment-only script)")
		os.Exit(0)
	}

	fmt.Println("SEGMENTATION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Script: %s (%d chars)\n", *scriptPath, len(script))
	fmt.Printf("Budget: %d chars\n", seg.Budget())
	fmt.Printf("Blocks: %d\n\n", len(blocks))

	var totalChars, oversized, maxChars int
	byType := make(map[string]int)

	for _, b := range blocks {
		totalChars += b.Chars
		byType[string(b.Type)]++
		if b.Chars > maxChars {
			maxChars = b.Chars
		}

		marker := ""
		if b.Chars > seg.Budget() {
			oversized++
			marker = " OVER"
		}
		fmt.Printf("%3d. [%5d chars%s] %-16s %s\n", b.Seq, b.Chars, marker, b.Type, b.FirstLine(50))
	}

	avgChars := float64(totalChars) / float64(len(blocks))
	fill := avgChars / float64(seg.Budget())

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average block size: %.0f chars (%.0f%% of budget)\n", avgChars, fill*100)
	fmt.Printf("  Largest block:      %d chars\n", maxChars)
	fmt.Printf("  Over budget:        %d (single statements too large to split)\n", oversized)

	fmt.Printf("\nBlock types:\n")
	for t, n := range byType {
		fmt.Printf("  %-16s %d\n", t, n)
	}

	if oversized == 0 && fill > 0.3 {
		fmt.Println("\nStatus: GOOD - blocks fill the budget without exceeding it")
	} else if oversized == 0 {
		fmt.Println("\nStatus: OK - compliant but fragmented, consider a smaller budget")
	} else {
		fmt.Println("\nStatus: CHECK - some statements cannot be split below the budget")
	}
}
