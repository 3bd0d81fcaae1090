// Copyright 2026 The adccal Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bitset tracks membership of small non-negative integers, such as
// ADC codes, in a packed bitmap.
package bitset

import (
	"math/bits"
)

// Bitset is conceptually similar to []bool, but more memory efficient.
type Bitset struct {
	words  []uint64
	length int
}

// New returns a bitset able to hold positions [0, length).
func New(length int) *Bitset {
	return &Bitset{
		words:  make([]uint64, (length+63)/64),
		length: length,
	}
}

func (b *Bitset) inRange(i int) bool {
	return i >= 0 && i < b.length
}

// Set marks position i.  Out-of-range positions are ignored.
func (b *Bitset) Set(i int) {
	if !b.inRange(i) {
		return
	}
	b.words[i/64] |= 1 << (uint(i) % 64)
}

// Clear unmarks position i.  Out-of-range positions are ignored.
func (b *Bitset) Clear(i int) {
	if !b.inRange(i) {
		return
	}
	b.words[i/64] &^= 1 << (uint(i) % 64)
}

// IsSet reports whether position i is marked.
func (b *Bitset) IsSet(i int) bool {
	if !b.inRange(i) {
		return false
	}
	return b.words[i/64]&(1<<(uint(i)%64)) != 0
}

// Len is the capacity the bitset was created with.
func (b *Bitset) Len() int {
	return b.length
}

// Count returns the number of marked positions.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Members returns the marked positions in ascending order.
func (b *Bitset) Members() []int {
	out := make([]int, 0, b.Count())
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, wi*64+tz)
			w &= w - 1
		}
	}
	return out
}
