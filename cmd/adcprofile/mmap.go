// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bpowers/adccal"
)

func loadMmapped(path string, p *adccal.Profile, logger *slog.Logger) (adccal.Status, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return adccal.StatusAbsent, fmt.Errorf("filepath.Abs: %w", err)
	}
	dir, name := filepath.Split(path)
	return adccal.Load(adccal.MmapStore{Root: dir}, p,
		adccal.WithPath("/"+name),
		adccal.WithLogger(logger))
}
