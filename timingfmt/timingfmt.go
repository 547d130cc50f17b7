// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timingfmt loads the structured timing artifacts a benchmark
// run leaves behind and normalizes them to milliseconds.
//
// Two formats exist. Hyperfine writes {tool}_hyperfine_{N}.json for
// each tool it measured, with durations in seconds. The internal
// measurement path writes bpftop_timing_{N}.json, with durations in
// microseconds; that path runs inside bpftop itself, so this source
// only ever describes one tool (see InternalTool).
package timingfmt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// InternalTool is the only tool the internal timing source can
// describe. The internal summary is keyed by scale alone; its file
// name carries no tool component because there is no choice to make.
const InternalTool = "bpftop"

// A Sample is one normalized timing measurement. Mean and Stddev are
// in milliseconds regardless of what the source file used.
type Sample struct {
	Mean   float64
	Stddev float64
}

// A Source identifies which timing format supplied the samples for a
// scale point.
type Source int

const (
	// SourceNone means neither format had any data.
	SourceNone Source = iota
	// SourceHyperfine means the hyperfine export was used.
	SourceHyperfine
	// SourceInternal means the internal summary was used.
	SourceInternal
)

func (s Source) String() string {
	switch s {
	case SourceHyperfine:
		return "hyperfine"
	case SourceInternal:
		return "internal"
	}
	return "none"
}

// internalRecord is the shape of bpftop_timing_{N}.json.
type internalRecord struct {
	Stats struct {
		MeanUS   float64 `json:"mean_us"`
		StddevUS float64 `json:"stddev_us"`
	} `json:"stats"`
}

// hyperfineRecord is the subset of hyperfine's JSON export we use.
type hyperfineRecord struct {
	Results []struct {
		Mean   float64 `json:"mean"`
		Stddev float64 `json:"stddev"`
	} `json:"results"`
}

// LoadInternal reads the internal timing summary for scale point n.
// A missing file yields nil with a nil error; a file that exists but
// does not decode is an error.
func LoadInternal(dir string, n int) (*Sample, error) {
	path := filepath.Join(dir, fmt.Sprintf("bpftop_timing_%d.json", n))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rec internalRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return &Sample{
		Mean:   rec.Stats.MeanUS / 1000,
		Stddev: rec.Stats.StddevUS / 1000,
	}, nil
}

// LoadHyperfine reads the hyperfine export for tool at scale point n.
// A missing file, a missing results key, or an empty results list all
// yield nil with a nil error. Only the first result entry is used.
func LoadHyperfine(dir, tool string, n int) (*Sample, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_hyperfine_%d.json", tool, n))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var rec hyperfineRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if len(rec.Results) == 0 {
		return nil, nil
	}
	return &Sample{
		Mean:   rec.Results[0].Mean * 1000,
		Stddev: rec.Results[0].Stddev * 1000,
	}, nil
}

// A Resolution is the outcome of the source lookup for one scale
// point. When Source is SourceHyperfine, Samples has an entry per
// tool which may still be nil: absence in the winning source stays
// absence. When Source is SourceInternal, Samples holds only
// InternalTool. When Source is SourceNone, Samples is empty.
type Resolution struct {
	Source  Source
	Samples map[string]*Sample
}

// Resolve applies the source priority for one scale point. Hyperfine
// wins if it has data for either tool, and it then answers for both
// tools: a tool hyperfine did not cover is reported absent rather
// than filled in from the internal summary. The internal summary is
// consulted only when hyperfine has nothing for anyone.
func Resolve(dir string, tools []string, n int) (Resolution, error) {
	hyper := make(map[string]*Sample, len(tools))
	found := false
	for _, tool := range tools {
		s, err := LoadHyperfine(dir, tool, n)
		if err != nil {
			return Resolution{}, err
		}
		hyper[tool] = s
		if s != nil {
			found = true
		}
	}
	if found {
		return Resolution{Source: SourceHyperfine, Samples: hyper}, nil
	}

	s, err := LoadInternal(dir, n)
	if err != nil {
		return Resolution{}, err
	}
	if s == nil {
		return Resolution{Source: SourceNone, Samples: map[string]*Sample{}}, nil
	}
	return Resolution{
		Source:  SourceInternal,
		Samples: map[string]*Sample{InternalTool: s},
	}, nil
}
