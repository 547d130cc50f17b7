// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchviz renders comparison charts from the artifacts a bpftop
// benchmark run leaves behind.
//
// Usage:
//
//	benchviz [-results-dir dir]
//
// The results directory (default bench/results) holds per-scale
// strace summaries ({tool}_strace_{N}.txt), hyperfine exports
// ({tool}_hyperfine_{N}.json), and internal timing summaries
// (bpftop_timing_{N}.json). Benchviz writes three PNGs next to them:
//
//	syscall_scaling.png    total syscalls vs process count
//	collection_time.png    refresh time vs process count
//	syscall_breakdown.png  per-syscall counts at one scale
//
// A chart with no usable data is skipped with a warning; the others
// are still produced. Only a missing results directory is fatal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bpftop/benchviz/benchseries"
)

var exit = os.Exit // replaced during testing

func usage() {
	fmt.Fprintf(os.Stderr, "usage: benchviz [-results-dir dir]\n")
	flag.PrintDefaults()
	exit(2)
}

func main() {
	log.SetPrefix("benchviz: ")
	log.SetFlags(0)
	resultsDir := flag.String("results-dir", filepath.Join("bench", "results"), "directory containing benchmark results")
	flag.Usage = usage
	flag.Parse()

	if err := run(*resultsDir); err != nil {
		log.Print(err)
		exit(1)
	}
}

// run generates all three charts from the artifacts under dir. Each
// chart catches its own failures, so a bad or missing source for one
// chart never stops the others.
func run(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("results directory not found: %s (run the benchmark first)", dir)
	}

	fmt.Println("Generating benchmark graphs...")
	scalingChart(dir)
	timingChart(dir)
	breakdownChart(dir)
	fmt.Println("Done.")
	return nil
}

func scalingChart(dir string) {
	s, err := benchseries.BuildScaling(dir, benchseries.DefaultScales)
	if err != nil {
		warnSkip("syscall_scaling.png", err)
		return
	}
	if s == nil {
		log.Print("WARNING: no strace data found, skipping syscall_scaling.png")
		return
	}
	saveChart(filepath.Join(dir, "syscall_scaling.png"), func(path string) error {
		return benchseries.ScalingChart(s, path)
	})
}

func timingChart(dir string) {
	t, err := benchseries.BuildTiming(dir, benchseries.DefaultScales)
	if err != nil {
		warnSkip("collection_time.png", err)
		return
	}
	if t == nil {
		log.Print("WARNING: no timing data found, skipping collection_time.png")
		return
	}
	saveChart(filepath.Join(dir, "collection_time.png"), func(path string) error {
		return benchseries.TimingChart(t, path)
	})
}

func breakdownChart(dir string) {
	b, err := benchseries.BuildBreakdown(dir, benchseries.DefaultScales, benchseries.DefaultBreakdownScale)
	if err != nil {
		warnSkip("syscall_breakdown.png", err)
		return
	}
	if b == nil {
		log.Print("WARNING: no strace data found, skipping syscall_breakdown.png")
		return
	}
	saveChart(filepath.Join(dir, "syscall_breakdown.png"), func(path string) error {
		return benchseries.BreakdownChart(b, path)
	})
}

func saveChart(path string, render func(string) error) {
	if err := render(path); err != nil {
		warnSkip(filepath.Base(path), err)
		return
	}
	fmt.Printf("  Saved %s\n", path)
}

func warnSkip(name string, err error) {
	log.Printf("WARNING: skipping %s: %v", name, err)
}
