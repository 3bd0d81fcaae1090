// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"log/slog"
)

// DefaultRadius is the number of codes on each side of a boundary that
// Smooth rewrites.
const DefaultRadius = 16

// DefaultBoundaries are the codes where the converter switches internal
// ranges and the raw output jumps.
var DefaultBoundaries = []int{512, 1536, 2560, 3584}

// Smooth replaces the window around each of DefaultBoundaries with a linear
// ramp between the window's edge values.
func (c *Calibration) Smooth() {
	c.SmoothBoundaries(DefaultBoundaries, DefaultRadius, nil)
}

// SmoothBoundaries rewrites, for each center, the codes strictly between
// center-radius-1 and center+radius (both clamped to [0, MaxCode]) with a
// truncating linear interpolation of the two edge values.  The edges are
// read before the window is written and are never modified themselves.
//
// Running it twice is not a no-op in general: the second pass reads its
// edges from a table the first pass may already have rewritten when
// windows overlap.
func (c *Calibration) SmoothBoundaries(centers []int, radius int, logger *slog.Logger) {
	for _, center := range centers {
		left, right := smoothWindow(center, radius)
		if right-left < 2 {
			// nothing strictly between the anchors
			continue
		}
		smoothRange(c.Correction[:], left, right)
		if logger != nil {
			logger.Debug("smoothed correction window",
				"boundary", center,
				"left", left,
				"right", right)
		}
	}
}

func smoothWindow(center, radius int) (left, right int) {
	left = clampCode(center - radius - 1)
	right = clampCode(center + radius)
	return
}

func clampCode(i int) int {
	if i < 0 {
		return 0
	} else if i > MaxCode {
		return MaxCode
	}
	return i
}

// smoothRange interpolates table[left+1:right] between table[left] and
// table[right].  Go's integer division truncates toward zero, which matches
// truncating the real-valued product t*(rv-lv) exactly.
func smoothRange(table []int16, left, right int) {
	lv := int(table[left])
	rv := int(table[right])
	span := right - left
	diff := rv - lv
	for i := left + 1; i < right; i++ {
		table[i] = int16(lv + (i-left)*diff/span)
	}
}
