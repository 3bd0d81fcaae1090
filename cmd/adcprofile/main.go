// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command adcprofile loads a calibration profile the way the device does and
// prints what it found.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bpowers/adccal"
	"github.com/bpowers/adccal/diag"
)

func main() {
	var (
		path    string
		logFlag string
		raw     int
		mmapped bool
	)
	flag.StringVar(&path, "file", "histogram.bin", "profile file to load")
	flag.StringVar(&logFlag, "log", "info", "log level (debug, info, warn, error)")
	flag.IntVar(&raw, "raw", -1, "print the corrected value of this raw code")
	flag.BoolVar(&mmapped, "mmap", false, "read the profile through mmap")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log level %q: %s\n", logFlag, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var (
		p      adccal.Profile
		status adccal.Status
		err    error
	)
	if mmapped {
		status, err = loadMmapped(path, &p, logger)
	} else {
		status, err = adccal.LoadFile(path, &p, adccal.WithLogger(logger))
	}
	fmt.Printf("status:      %s\n", status)
	if !status.OK() {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	cal := &p.Calibration
	fmt.Printf("range:       %d-%d\n", cal.ADCMin, cal.ADCMax)
	fmt.Printf("fingerprint: %016x\n", p.Fingerprint())

	r := diag.Analyze(&p.Histogram, cal.ADCMin, cal.ADCMax)
	fmt.Printf("samples:     %d\n", r.Samples)
	fmt.Printf("mean code:   %.2f (stddev %.2f)\n", r.Mean, r.StdDev)
	fmt.Printf("populated:   %d-%d\n", r.Lowest, r.Highest)
	fmt.Printf("missing:     %d codes\n", len(r.Missing))

	if raw >= 0 {
		if raw > adccal.MaxCode {
			fmt.Fprintf(os.Stderr, "-raw %d out of range\n", raw)
			os.Exit(2)
		}
		code := uint16(raw)
		fmt.Printf("raw %d:    corrected %d, normalized %.5f\n", raw, cal.Apply(code), cal.Normalize(code))
	}
}
