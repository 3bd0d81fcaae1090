// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command gen-testdata writes a synthetic calibration profile: a correction
// table with steps at each range-switch boundary and a roughly gaussian
// histogram.  It is for exercising loaders, not for calibrating hardware.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/bpowers/adccal"
)

const (
	adcMin  = 12
	adcMax  = 4080
	stepLen = 6
	samples = 1000000
)

func main() {
	var (
		out  string
		seed int64
	)
	flag.StringVar(&out, "o", "histogram.bin", "output path")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(seed))

	var p adccal.Profile
	p.Calibration.Magic = adccal.Magic
	p.Calibration.ADCMin = adcMin
	p.Calibration.ADCMax = adcMax

	step := int16(0)
	next := 0
	for code := range p.Calibration.Correction {
		if next < len(adccal.DefaultBoundaries) && code == adccal.DefaultBoundaries[next] {
			step += stepLen
			next++
		}
		p.Calibration.Correction[code] = -step + int16(rng.Intn(3)-1)
	}

	mean := float64(adcMin+adcMax) / 2
	stddev := float64(adcMax-adcMin) / 6
	for i := 0; i < samples; i++ {
		code := int(math.Round(rng.NormFloat64()*stddev + mean))
		if code < 0 || code > adccal.MaxCode {
			continue
		}
		p.Histogram[code]++
	}

	buf, err := p.MarshalBinary()
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(out, buf, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "os.WriteFile(%s): %s\n", out, err)
		os.Exit(1)
	}
}
