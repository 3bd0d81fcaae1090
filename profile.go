// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"encoding/binary"
	"fmt"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/adccal/internal/zero"
)

const (
	// Magic marks a valid calibration record.
	Magic = 0xCA11B8ED

	// NumCodes is the number of distinct raw readings of a 12-bit ADC.
	NumCodes = 4096
	MaxCode  = NumCodes - 1

	HistogramSize   = NumCodes * 4
	CalibrationSize = 4 + NumCodes*2 + 2 + 2
	FileSize        = HistogramSize + CalibrationSize

	magicOff      = 0
	correctionOff = 4
	adcMinOff     = correctionOff + NumCodes*2
	adcMaxOff     = adcMinOff + 2
)

// Histogram holds how many calibration samples landed on each raw code.
type Histogram [NumCodes]uint32

// Calibration is the on-disk calibration record.
type Calibration struct {
	Magic      uint32
	Correction [NumCodes]int16 // additive offset, indexed by raw code
	ADCMin     uint16          // code at 0V
	ADCMax     uint16          // code at full scale
}

// Profile owns one histogram and one calibration record.  A zero Profile is
// ready to be passed to Load.
type Profile struct {
	Histogram   Histogram
	Calibration Calibration
}

func (h *Histogram) UnmarshalBytes(b []byte) error {
	if len(b) < HistogramSize {
		return fmt.Errorf("histogram too short: %d < %d", len(b), HistogramSize)
	}
	b = b[:HistogramSize]
	for i := range h {
		h[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return nil
}

func (h *Histogram) MarshalTo(b []byte) error {
	if len(b) < HistogramSize {
		return fmt.Errorf("buffer too short: %d < %d", len(b), HistogramSize)
	}
	for i, count := range h {
		binary.LittleEndian.PutUint32(b[4*i:], count)
	}
	return nil
}

// UnmarshalBytes decodes a calibration record.  It does not check the magic
// number; see Valid.
func (c *Calibration) UnmarshalBytes(b []byte) error {
	if len(b) < CalibrationSize {
		return fmt.Errorf("calibration too short: %d < %d", len(b), CalibrationSize)
	}
	b = b[:CalibrationSize]
	c.Magic = binary.LittleEndian.Uint32(b[magicOff:])
	for i := range c.Correction {
		c.Correction[i] = int16(binary.LittleEndian.Uint16(b[correctionOff+2*i:]))
	}
	c.ADCMin = binary.LittleEndian.Uint16(b[adcMinOff:])
	c.ADCMax = binary.LittleEndian.Uint16(b[adcMaxOff:])
	return nil
}

func (c *Calibration) MarshalTo(b []byte) error {
	if len(b) < CalibrationSize {
		return fmt.Errorf("buffer too short: %d < %d", len(b), CalibrationSize)
	}
	binary.LittleEndian.PutUint32(b[magicOff:], c.Magic)
	for i, off := range c.Correction {
		binary.LittleEndian.PutUint16(b[correctionOff+2*i:], uint16(off))
	}
	binary.LittleEndian.PutUint16(b[adcMinOff:], c.ADCMin)
	binary.LittleEndian.PutUint16(b[adcMaxOff:], c.ADCMax)
	return nil
}

// Valid reports whether the record carries the expected magic number.
func (c *Calibration) Valid() bool {
	return c.Magic == Magic
}

// MarshalBinary encodes the profile in the on-disk layout.
func (p *Profile) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FileSize)
	if err := p.Histogram.MarshalTo(buf[:HistogramSize]); err != nil {
		return nil, fmt.Errorf("Histogram.MarshalTo: %w", err)
	}
	if err := p.Calibration.MarshalTo(buf[HistogramSize:]); err != nil {
		return nil, fmt.Errorf("Calibration.MarshalTo: %w", err)
	}
	return buf, nil
}

// Fingerprint identifies the calibration record (not the histogram), so two
// units can be checked for identical corrections.
func (p *Profile) Fingerprint() uint64 {
	var buf [CalibrationSize]byte
	// MarshalTo only fails on a short buffer
	_ = p.Calibration.MarshalTo(buf[:])
	return farm.Fingerprint64(buf[:])
}

// Reset zeroes both the histogram and the calibration record.
func (p *Profile) Reset() {
	zero.U32(p.Histogram[:])
	zero.I16(p.Calibration.Correction[:])
	p.Calibration.Magic = 0
	p.Calibration.ADCMin = 0
	p.Calibration.ADCMax = 0
}

// Apply returns the corrected value for a raw reading, clamped to the valid
// code range.  Bits above the 12-bit code are ignored.
func (c *Calibration) Apply(raw uint16) uint16 {
	code := int(raw & MaxCode)
	v := code + int(c.Correction[code])
	if v < 0 {
		return 0
	} else if v > MaxCode {
		return MaxCode
	}
	return uint16(v)
}

// Normalize maps a raw reading onto [0, 1] between ADCMin and ADCMax after
// applying the correction.  A degenerate range always yields 0.
func (c *Calibration) Normalize(raw uint16) float64 {
	if c.ADCMax <= c.ADCMin {
		return 0
	}
	v := (float64(c.Apply(raw)) - float64(c.ADCMin)) / float64(c.ADCMax-c.ADCMin)
	if v < 0 {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}
