// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
)

// DefaultPath is where the calibration tool stores the profile.
const DefaultPath = "/histogram.bin"

// Status is the outcome of Load.
type Status int

const (
	// StatusAbsent means no profile could be found: the storage could not be
	// mounted or the file does not exist.
	StatusAbsent Status = iota
	// StatusInvalid means a file exists but is truncated or has a bad magic.
	StatusInvalid
	// StatusValidated means the profile was fully read, validated and smoothed.
	StatusValidated
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusInvalid:
		return "invalid"
	case StatusValidated:
		return "validated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// OK reports whether the profile may be trusted.
func (s Status) OK() bool {
	return s == StatusValidated
}

// Storage is a mountable filesystem holding the profile file, usually flash.
// Open must return an error matching fs.ErrNotExist for missing files.
type Storage interface {
	Mount() error
	Open(name string) (io.ReadCloser, error)
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger     *slog.Logger
	path       string
	boundaries []int
	radius     int
}

// WithLogger sets a logger for diagnostic messages.  If not provided, no
// logging output will be produced.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(opts *loadOptions) {
		opts.logger = logger
	}
}

// WithPath overrides DefaultPath.
func WithPath(path string) LoadOption {
	return func(opts *loadOptions) {
		opts.path = path
	}
}

// WithBoundaries overrides the boundaries smoothed after a successful load.
func WithBoundaries(radius int, codes ...int) LoadOption {
	return func(opts *loadOptions) {
		opts.radius = radius
		opts.boundaries = codes
	}
}

// Load mounts st, reads the profile file into p, validates it and smooths
// its correction table.  Anything other than StatusValidated comes with a
// non-nil error and leaves p zeroed.  No retry is attempted.
func Load(st Storage, p *Profile, opts ...LoadOption) (Status, error) {
	options := loadOptions{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		path:       DefaultPath,
		boundaries: DefaultBoundaries,
		radius:     DefaultRadius,
	}
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger.With("path", options.path)

	status, err := load(st, p, options.path)
	if err != nil {
		p.Reset()
		switch status {
		case StatusInvalid:
			logger.Warn("calibration file corrupt or incomplete", "err", err)
		default:
			logger.Info("no valid calibration in storage", "err", err)
		}
		return status, err
	}

	p.Calibration.SmoothBoundaries(options.boundaries, options.radius, logger)
	logger.Info("calibration loaded",
		"adc_min", p.Calibration.ADCMin,
		"adc_max", p.Calibration.ADCMax,
		"fingerprint", fmt.Sprintf("%016x", p.Fingerprint()))

	return StatusValidated, nil
}

func load(st Storage, p *Profile, path string) (Status, error) {
	if err := st.Mount(); err != nil {
		return StatusAbsent, fmt.Errorf("%w: %w", ErrMount, err)
	}

	f, err := st.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return StatusAbsent, fmt.Errorf("%w: %w", ErrNotFound, err)
	} else if err != nil {
		return StatusAbsent, fmt.Errorf("Open(%s): %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var buf [FileSize]byte
	if err := readBlob(f, "histogram", buf[:HistogramSize]); err != nil {
		return StatusInvalid, err
	}
	if err := readBlob(f, "calibration", buf[HistogramSize:]); err != nil {
		return StatusInvalid, err
	}

	if err := p.Histogram.UnmarshalBytes(buf[:HistogramSize]); err != nil {
		return StatusInvalid, fmt.Errorf("Histogram.UnmarshalBytes: %w", err)
	}
	if err := p.Calibration.UnmarshalBytes(buf[HistogramSize:]); err != nil {
		return StatusInvalid, fmt.Errorf("Calibration.UnmarshalBytes: %w", err)
	}
	if !p.Calibration.Valid() {
		return StatusInvalid, &BadMagicError{Found: p.Calibration.Magic}
	}

	return StatusValidated, nil
}

func readBlob(r io.Reader, name string, b []byte) error {
	n, err := io.ReadFull(r, b)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ShortReadError{Blob: name, Want: len(b), Got: n}
	} else if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}
