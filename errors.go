// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"errors"
	"fmt"
)

var (
	ErrMount     = errors.New("storage mount failed")
	ErrNotFound  = errors.New("no calibration file")
	ErrShortRead = errors.New("calibration file truncated")
	ErrBadMagic  = errors.New("bad calibration magic")
)

// ShortReadError reports which blob of the profile file ended early.
type ShortReadError struct {
	Blob string
	Want int
	Got  int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read of %s: got %d of %d bytes", e.Blob, e.Got, e.Want)
}

func (e *ShortReadError) Is(target error) bool {
	return target == ErrShortRead
}

// BadMagicError carries the magic number actually found in the file.
type BadMagicError struct {
	Found uint32
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("bad magic number %#08x (want %#08x) -- not a calibration file or corrupted", e.Found, uint32(Magic))
}

func (e *BadMagicError) Is(target error) bool {
	return target == ErrBadMagic
}
