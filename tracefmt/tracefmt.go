// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracefmt parses the tabular summary printed by "strace -c".
//
// A summary consists of a header, a separator, one data row per
// syscall, another separator, and a grand-total row. Only the data
// rows carry information; everything else is skipped. Each data row
// has a fixed column layout:
//
//	% time     seconds  usecs/call     calls    errors syscall
//	 36.50    0.013554          44       307        11 futex
//
// The errors column is blank for rows with no failing calls, so a
// data row has either five or six fields.
package tracefmt

import (
	"bufio"
	"io"
	"os"
)

// The summary's grand-total row carries this name in the syscall
// column. It repeats what the data rows already say, so it is never
// counted.
const totalRow = "total"

// A Report holds the syscall counts parsed from one trace artifact.
//
// A Report is always fully populated or empty: a missing or entirely
// unparseable artifact yields an empty Report, never a partial one.
type Report struct {
	// TotalCalls is the sum of Counts. It is recomputed from the
	// accepted rows rather than read from the artifact's own total
	// row, so TotalCalls always equals the sum of the values in
	// Counts.
	TotalCalls int

	// Names lists the syscall names in the order they first appear.
	Names []string

	// Counts maps a syscall name to its call count.
	Counts map[string]int
}

// Empty reports whether r contains no syscall rows.
func (r *Report) Empty() bool {
	return len(r.Counts) == 0
}

// ParseFile parses the strace summary at path.
//
// A missing artifact is expected (the benchmark run may not have
// recorded that tool/scale combination) and yields an empty Report
// with a nil error.
func ParseFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Report{Counts: make(map[string]int)}, nil
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses a strace summary from r.
//
// Rows that do not fit the data-row shape are skipped. If a syscall
// name appears on more than one row, the last row wins but the name
// keeps its original position in Names.
func Parse(r io.Reader) (*Report, error) {
	rep := &Report{Counts: make(map[string]int)}
	s := bufio.NewScanner(r)
	for s.Scan() {
		name, calls, ok := parseRow(s.Text())
		if !ok || name == totalRow {
			continue
		}
		if _, seen := rep.Counts[name]; !seen {
			rep.Names = append(rep.Names, name)
		}
		rep.Counts[name] = calls
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	for _, calls := range rep.Counts {
		rep.TotalCalls += calls
	}
	return rep, nil
}

// parseRow classifies one line of a summary. ok reports whether the
// line is a data row, in which case name and calls hold the syscall
// column and the calls column.
func parseRow(line string) (name string, calls int, ok bool) {
	f := fields(line)
	if len(f) != 5 && len(f) != 6 {
		return "", 0, false
	}
	if !isDecimal(f[0]) || !isDecimal(f[1]) || !isInt(f[2]) || !isInt(f[3]) {
		return "", 0, false
	}
	if len(f) == 6 && !isInt(f[4]) {
		return "", 0, false
	}
	name = f[len(f)-1]
	if !isName(name) {
		return "", 0, false
	}
	return name, atoi(f[3]), true
}

// fields splits line on runs of spaces and tabs. The summary is plain
// ASCII, so no Unicode handling is needed.
func fields(line string) []string {
	var f []string
	start := -1
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' || line[i] == '\t' || line[i] == '\r' {
			if start >= 0 {
				f = append(f, line[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		f = append(f, line[start:])
	}
	return f
}

// isDecimal matches the percentage and seconds columns: one or more
// digits, optionally mixed with dots. Signs and exponents never occur
// in the summary, so they are rejected.
func isDecimal(s string) bool {
	digit := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digit = true
		case s[i] == '.':
			// ok
		default:
			return false
		}
	}
	return digit
}

// isInt matches the usecs/call, calls, and errors columns.
func isInt(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isName matches a syscall name: letters, digits, and underscores.
func isName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}

// atoi converts a string already validated by isInt. The calls column
// of a real summary is far below the int range, so overflow is not a
// concern.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
