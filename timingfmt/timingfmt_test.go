// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timingfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var tools = []string{"bpftop", "htop"}

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
}

func writeHyperfine(t *testing.T, dir, tool string, n int, mean, stddev float64) {
	t.Helper()
	data := fmt.Sprintf(`{"results": [{"command": "%s", "mean": %g, "stddev": %g}]}`, tool, mean, stddev)
	writeFile(t, dir, fmt.Sprintf("%s_hyperfine_%d.json", tool, n), data)
}

func writeInternal(t *testing.T, dir string, n int, meanUS, stddevUS float64) {
	t.Helper()
	data := fmt.Sprintf(`{"runs": 20, "stats": {"mean_us": %g, "stddev_us": %g}}`, meanUS, stddevUS)
	writeFile(t, dir, fmt.Sprintf("bpftop_timing_%d.json", n), data)
}

func TestLoadHyperfine(t *testing.T) {
	dir := t.TempDir()
	writeHyperfine(t, dir, "htop", 100, 0.123, 0.004)

	s, err := LoadHyperfine(dir, "htop", 100)
	if err != nil {
		t.Fatalf("LoadHyperfine: %v", err)
	}
	// Seconds convert to milliseconds.
	want := &Sample{Mean: 123, Stddev: 4}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadHyperfineAbsent(t *testing.T) {
	dir := t.TempDir()

	// Missing file.
	if s, err := LoadHyperfine(dir, "htop", 100); err != nil || s != nil {
		t.Errorf("missing file: got %v, %v; want nil, nil", s, err)
	}

	// Empty results list.
	writeFile(t, dir, "htop_hyperfine_100.json", `{"results": []}`)
	if s, err := LoadHyperfine(dir, "htop", 100); err != nil || s != nil {
		t.Errorf("empty results: got %v, %v; want nil, nil", s, err)
	}

	// Missing results key.
	writeFile(t, dir, "htop_hyperfine_200.json", `{"other": 1}`)
	if s, err := LoadHyperfine(dir, "htop", 200); err != nil || s != nil {
		t.Errorf("missing key: got %v, %v; want nil, nil", s, err)
	}
}

func TestLoadHyperfineMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "htop_hyperfine_100.json", `{"results": [`)
	if _, err := LoadHyperfine(dir, "htop", 100); err == nil {
		t.Error("malformed JSON: want error, got nil")
	}
}

func TestLoadInternal(t *testing.T) {
	dir := t.TempDir()
	writeInternal(t, dir, 500, 4200, 310)

	s, err := LoadInternal(dir, 500)
	if err != nil {
		t.Fatalf("LoadInternal: %v", err)
	}
	// Microseconds convert to milliseconds.
	want := &Sample{Mean: 4.2, Stddev: 0.31}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveHyperfineWinsForBothTools(t *testing.T) {
	dir := t.TempDir()
	// Hyperfine covered only htop, but the internal summary exists.
	// Hyperfine still answers for both tools: bpftop stays absent.
	writeHyperfine(t, dir, "htop", 1000, 0.2, 0.01)
	writeInternal(t, dir, 1000, 5000, 100)

	res, err := Resolve(dir, tools, 1000)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Source != SourceHyperfine {
		t.Fatalf("Source = %v, want %v", res.Source, SourceHyperfine)
	}
	if res.Samples["bpftop"] != nil {
		t.Errorf("bpftop = %+v, want nil (absence is not filled from the internal source)", res.Samples["bpftop"])
	}
	if got := res.Samples["htop"]; got == nil || got.Mean != 200 {
		t.Errorf("htop = %+v, want mean 200", got)
	}
}

func TestResolveFallsBackToInternal(t *testing.T) {
	dir := t.TempDir()
	writeInternal(t, dir, 2000, 8000, 400)

	res, err := Resolve(dir, tools, 2000)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Source != SourceInternal {
		t.Fatalf("Source = %v, want %v", res.Source, SourceInternal)
	}
	want := map[string]*Sample{"bpftop": {Mean: 8, Stddev: 0.4}}
	if diff := cmp.Diff(want, res.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNone(t *testing.T) {
	res, err := Resolve(t.TempDir(), tools, 100)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Source != SourceNone {
		t.Errorf("Source = %v, want %v", res.Source, SourceNone)
	}
	if len(res.Samples) != 0 {
		t.Errorf("Samples = %v, want empty", res.Samples)
	}
}

func TestResolveMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bpftop_hyperfine_100.json", `not json`)
	if _, err := Resolve(dir, tools, 100); err == nil {
		t.Error("malformed hyperfine record: want error, got nil")
	}
}
