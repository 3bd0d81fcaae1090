// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero provides functions to zero slices of specific types.
package zero

func U32(b []uint32) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}

func I16(b []int16) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}
