// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bpowers/adccal/internal/mmap"
)

// DirStore is a Storage rooted at a directory, typically the mount point of
// a flash filesystem.
type DirStore struct {
	Root string
}

var _ Storage = DirStore{}

func (s DirStore) Mount() error {
	return mountDir(s.Root)
}

func (s DirStore) Open(name string) (io.ReadCloser, error) {
	path := resolve(s.Root, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s): %w", path, err)
	}
	return f, nil
}

// MmapStore is like DirStore, but maps the profile into memory read-only
// instead of reading it through the page cache with read(2).
type MmapStore struct {
	Root string
}

var _ Storage = MmapStore{}

func (s MmapStore) Mount() error {
	return mountDir(s.Root)
}

func (s MmapStore) Open(name string) (io.ReadCloser, error) {
	path := resolve(s.Root, name)
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}
	if err := m.Advise(unix.MADV_SEQUENTIAL); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("madvise: %w", err)
	}
	return &mappedFile{
		SectionReader: io.NewSectionReader(m, 0, int64(m.Len())),
		m:             m,
	}, nil
}

type mappedFile struct {
	*io.SectionReader
	m *mmap.ReaderAt
}

func (f *mappedFile) Close() error {
	return f.m.Close()
}

func mountDir(root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("os.Stat(%s): %w", root, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return nil
}

// resolve maps a slash-separated, root-relative storage name onto the host
// filesystem.
func resolve(root, name string) string {
	name = strings.TrimPrefix(name, "/")
	return filepath.Join(root, filepath.FromSlash(name))
}

// LoadFile loads the profile at an OS path by treating its directory as the
// storage root.
func LoadFile(path string, p *Profile, opts ...LoadOption) (Status, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return StatusAbsent, fmt.Errorf("filepath.Abs: %w", err)
	}
	dir, name := filepath.Split(path)
	opts = append([]LoadOption{WithPath("/" + name)}, opts...)
	return Load(DirStore{Root: dir}, p, opts...)
}
