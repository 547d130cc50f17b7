// Copyright 2026 The benchviz Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import "image/color"

// Gruvbox dark palette, matching the bpftop UI theme.
var (
	gruvBG  = color.NRGBA{0x28, 0x28, 0x28, 0xff} // background
	gruvBG1 = color.NRGBA{0x3c, 0x38, 0x36, 0xff} // grid
	gruvBG2 = color.NRGBA{0x50, 0x49, 0x45, 0xff} // axes
	gruvFG  = color.NRGBA{0xeb, 0xdb, 0xb2, 0xff} // text
	gruvFG4 = color.NRGBA{0xa8, 0x99, 0x84, 0xff} // tick labels

	gruvGreen = color.NRGBA{0xb8, 0xbb, 0x26, 0xff}
	gruvRed   = color.NRGBA{0xfb, 0x49, 0x34, 0xff}
)

// toolColor returns the plot color for a tool's series.
func toolColor(tool string) color.NRGBA {
	if tool == ToolBPFTop {
		return gruvGreen
	}
	return gruvRed
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}
