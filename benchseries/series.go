// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries aligns the per-scale artifacts of a benchmark
// run into comparative series and renders them as charts.
//
// A run records, for each workload scale in Scales, a trace artifact
// per tool ({tool}_strace_{N}.txt) and up to two timing artifacts
// (see package timingfmt). Builders re-read everything from disk on
// each call; nothing is cached between charts. Scale points with no
// data are dropped from a series, never interpolated.
package benchseries

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bpftop/benchviz/timingfmt"
	"github.com/bpftop/benchviz/tracefmt"
)

const (
	// ToolBPFTop and ToolHtop are the two monitors under comparison.
	ToolBPFTop = "bpftop"
	ToolHtop   = "htop"

	// RankTool decides the breakdown ordering. htop makes the more
	// interesting ranking: it is the tool whose syscall use grows
	// with the workload.
	RankTool = ToolHtop

	// DefaultBreakdownScale is the scale point the breakdown chart
	// targets when the caller has no preference.
	DefaultBreakdownScale = 5000

	// topSyscalls caps how many syscalls the breakdown chart shows.
	topSyscalls = 15
)

// Tools lists the compared tools in presentation order.
var Tools = []string{ToolBPFTop, ToolHtop}

// DefaultScales is the fixed ascending list of workload sizes a
// benchmark run records.
var DefaultScales = []int{100, 500, 1000, 2000, 5000, 10000}

// A Scaling holds each tool's total syscall count at every scale
// point where at least one tool produced a non-empty trace. Totals
// values are aligned index-for-index with Scales; a zero is a real
// measurement (the other tool had data at that scale).
type Scaling struct {
	Scales []int
	Totals map[string][]int
}

// A Timing holds each tool's timing sample at every scale point where
// either timing source produced data. Samples values are aligned
// index-for-index with Scales; a nil entry means that tool was not
// measured at that scale, which is distinct from a zero duration.
type Timing struct {
	Scales  []int
	Samples map[string][]*timingfmt.Sample
}

// A Breakdown holds the per-syscall counts of both tools at one scale
// point. Names is ranked by RankTool's count, descending, and capped
// at the top entries; Counts values are aligned with Names.
type Breakdown struct {
	// Scale is the effective scale point. It may be smaller than the
	// one a caller asked for if no data existed there and the
	// builder fell back to another scale.
	Scale  int
	Names  []string
	Counts map[string][]int
}

func tracePath(dir, tool string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_strace_%d.txt", tool, n))
}

// BuildScaling assembles the syscall-count series from the trace
// artifacts under dir. It returns nil if no scale point has trace
// data for either tool.
func BuildScaling(dir string, scales []int) (*Scaling, error) {
	s := &Scaling{Totals: make(map[string][]int)}
	for _, n := range scales {
		reports := make(map[string]*tracefmt.Report, len(Tools))
		anyCalls := false
		for _, tool := range Tools {
			rep, err := tracefmt.ParseFile(tracePath(dir, tool, n))
			if err != nil {
				return nil, err
			}
			reports[tool] = rep
			if rep.TotalCalls > 0 {
				anyCalls = true
			}
		}
		if !anyCalls {
			continue
		}
		s.Scales = append(s.Scales, n)
		for _, tool := range Tools {
			s.Totals[tool] = append(s.Totals[tool], reports[tool].TotalCalls)
		}
	}
	if len(s.Scales) == 0 {
		return nil, nil
	}
	return s, nil
}

// BuildTiming assembles the timing series from whichever timing
// source wins at each scale point (see timingfmt.Resolve). It returns
// nil if no scale point has timing data for either tool.
func BuildTiming(dir string, scales []int) (*Timing, error) {
	t := &Timing{Samples: make(map[string][]*timingfmt.Sample)}
	for _, n := range scales {
		res, err := timingfmt.Resolve(dir, Tools, n)
		if err != nil {
			return nil, err
		}
		if res.Source == timingfmt.SourceNone {
			continue
		}
		t.Scales = append(t.Scales, n)
		for _, tool := range Tools {
			t.Samples[tool] = append(t.Samples[tool], res.Samples[tool])
		}
	}
	if len(t.Scales) == 0 {
		return nil, nil
	}
	return t, nil
}

// BuildBreakdown assembles the per-syscall comparison at the target
// scale point. If neither tool has trace data there, it walks scales
// from largest to smallest and uses the first scale with any data,
// recording it in the result's Scale field so the chart title shows
// where the numbers actually came from. It returns nil if no scale
// point anywhere has data.
func BuildBreakdown(dir string, scales []int, target int) (*Breakdown, error) {
	reports, err := breakdownReports(dir, target)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		for i := len(scales) - 1; i >= 0 && reports == nil; i-- {
			target = scales[i]
			reports, err = breakdownReports(dir, target)
			if err != nil {
				return nil, err
			}
		}
		if reports == nil {
			return nil, nil
		}
	}

	b := &Breakdown{
		Scale:  target,
		Names:  rankNames(reports),
		Counts: make(map[string][]int),
	}
	for _, tool := range Tools {
		counts := make([]int, len(b.Names))
		for i, name := range b.Names {
			counts[i] = reports[tool].Counts[name]
		}
		b.Counts[tool] = counts
	}
	return b, nil
}

// breakdownReports parses both tools' traces at scale point n,
// returning nil if both are empty.
func breakdownReports(dir string, n int) (map[string]*tracefmt.Report, error) {
	reports := make(map[string]*tracefmt.Report, len(Tools))
	empty := true
	for _, tool := range Tools {
		rep, err := tracefmt.ParseFile(tracePath(dir, tool, n))
		if err != nil {
			return nil, err
		}
		reports[tool] = rep
		if !rep.Empty() {
			empty = false
		}
	}
	if empty {
		return nil, nil
	}
	return reports, nil
}

// rankNames returns the union of both tools' syscall names ordered by
// RankTool's count, descending, capped at topSyscalls. The sort is
// stable over encounter order: RankTool's names come first in the
// order its trace listed them, then names only the other tools saw,
// so ties keep their original order.
func rankNames(reports map[string]*tracefmt.Report) []string {
	rank := reports[RankTool]
	names := append([]string(nil), rank.Names...)
	for _, tool := range Tools {
		if tool == RankTool {
			continue
		}
		for _, name := range reports[tool].Names {
			if _, ok := rank.Counts[name]; !ok {
				names = append(names, name)
			}
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return rank.Counts[names[i]] > rank.Counts[names[j]]
	})
	if len(names) > topSyscalls {
		names = names[:topSyscalls]
	}
	return names
}
