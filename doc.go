// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package adccal loads a precomputed linearity-correction profile for a
// 12-bit ADC, validates it, and smooths the correction table around the
// converter's internal range-switch boundaries.
//
// A profile file is a fixed-size, little-endian concatenation of two blobs:
//
//	┌───────────────────┐ 0
//	│ histogram         │ 4096 × uint32 sample counts
//	│                   │
//	├───────────────────┤ 16384
//	│ magic             │ uint32, 0xCA11B8ED
//	├───────────────────┤ 16388
//	│ correction table  │ 4096 × int16 offsets
//	│                   │
//	├───────────────────┤ 24580
//	│ adc_min | adc_max │ 2 × uint16
//	└───────────────────┘ 24584
//
// There is no version field; the magic number is the only validation. A
// profile is either fully validated or treated as absent.
package adccal
