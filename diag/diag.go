// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package diag summarizes the calibration histogram stored alongside a
// correction table, to judge whether the calibration run was any good.
package diag

import (
	"gonum.org/v1/gonum/stat"

	"github.com/bpowers/adccal"
	"github.com/bpowers/adccal/internal/bitset"
)

// Report describes how calibration samples were spread over raw codes.
type Report struct {
	Samples uint64
	Mean    float64
	StdDev  float64

	// Lowest and Highest bound the codes that received any sample.
	Lowest  uint16
	Highest uint16

	// Missing lists codes in the requested range that never received a
	// sample.  Missing codes usually mean the sweep was too fast or the
	// converter skips codes.
	Missing []int
}

// Analyze computes a Report.  lo and hi bound the range checked for missing
// codes, usually ADCMin and ADCMax of the matching calibration record.
func Analyze(h *adccal.Histogram, lo, hi uint16) Report {
	var (
		codes   []float64
		weights []float64
		r       Report
	)
	for code, count := range h {
		if count == 0 {
			continue
		}
		if r.Samples == 0 {
			r.Lowest = uint16(code)
		}
		r.Highest = uint16(code)
		r.Samples += uint64(count)
		codes = append(codes, float64(code))
		weights = append(weights, float64(count))
	}
	if r.Samples == 0 {
		return Report{}
	}

	if r.Samples > 1 {
		r.Mean, r.StdDev = stat.MeanStdDev(codes, weights)
	} else {
		r.Mean = codes[0]
	}

	if hi > adccal.MaxCode {
		hi = adccal.MaxCode
	}
	if lo <= hi {
		missing := bitset.New(adccal.NumCodes)
		for code := int(lo); code <= int(hi); code++ {
			if h[code] == 0 {
				missing.Set(code)
			}
		}
		r.Missing = missing.Members()
	}

	return r
}
