// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides read-only memory-mapped files.
package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

var errClosed = errors.New("mmap: closed")

// ReaderAt reads a memory-mapped file.  It is not safe to call Close
// concurrently with reads.
type ReaderAt struct {
	data   []byte
	closed bool
}

// Open memory-maps the named file for reading.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}

	size := fi.Size()
	if size == 0 {
		// mmap(2) rejects zero-length mappings
		return &ReaderAt{}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %q has unsupported size %d", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap: %w", err)
	}
	r := &ReaderAt{data: data}
	runtime.SetFinalizer(r, (*ReaderAt).Close)
	return r, nil
}

// Len returns the length of the mapping.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Data returns the mapped bytes.  They are invalid after Close.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Advise passes an madvise(2) hint for the whole mapping.
func (r *ReaderAt) Advise(advice int) error {
	if len(r.data) == 0 {
		return nil
	}
	return unix.Madvise(r.data, advice)
}

func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if r.closed {
		return 0, errClosed
	}
	if off < 0 || int64(len(r.data)) < off {
		return 0, fmt.Errorf("mmap: invalid ReadAt offset %d", off)
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file.  Closing twice is a no-op.
func (r *ReaderAt) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	data := r.data
	r.data = nil
	if data == nil {
		return nil
	}
	runtime.SetFinalizer(r, nil)
	return unix.Munmap(data)
}
