// Copyright 2026 The adccal Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package adccal

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mountErr error
	readErr  error
	files    map[string][]byte
	mounts   int
}

func (s *memStorage) Mount() error {
	s.mounts++
	return s.mountErr
}

func (s *memStorage) Open(name string) (io.ReadCloser, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	var r io.Reader = iotest.HalfReader(bytes.NewReader(data))
	if s.readErr != nil {
		r = io.MultiReader(r, iotest.ErrReader(s.readErr))
	}
	return io.NopCloser(r), nil
}

var _ Storage = &memStorage{}

func profileFile(t *testing.T, p *Profile) []byte {
	buf, err := p.MarshalBinary()
	require.NoError(t, err)
	return buf
}

func scenarioProfile() *Profile {
	p := newTestProfile()
	p.Calibration.Correction[495] = 100
	p.Calibration.Correction[528] = 132
	return p
}

func writeProfileFile(t *testing.T, dir string, contents []byte) {
	err := os.WriteFile(filepath.Join(dir, "histogram.bin"), contents, 0644)
	require.NoError(t, err)
}

func TestLoad(t *testing.T) {
	src := scenarioProfile()
	st := &memStorage{files: map[string][]byte{DefaultPath: profileFile(t, src)}}

	var p Profile
	status, err := Load(st, &p)
	require.NoError(t, err)
	require.Equal(t, StatusValidated, status)
	assert.True(t, status.OK())
	assert.Equal(t, 1, st.mounts)

	expected := *src
	expected.Calibration.Smooth()
	assert.Equal(t, expected, p)
	assert.Equal(t, src.Histogram, p.Histogram)

	assert.Equal(t, int16(100), p.Calibration.Correction[495])
	assert.Equal(t, int16(132), p.Calibration.Correction[528])
	assert.Equal(t, int16(115), p.Calibration.Correction[511])
}

func TestLoad_NoSmoothing(t *testing.T) {
	src := scenarioProfile()
	st := &memStorage{files: map[string][]byte{DefaultPath: profileFile(t, src)}}

	var p Profile
	status, err := Load(st, &p, WithBoundaries(DefaultRadius))
	require.NoError(t, err)
	require.Equal(t, StatusValidated, status)
	// contents exactly as stored
	assert.Equal(t, *src, p)
}

func TestLoad_TrailingBytesIgnored(t *testing.T) {
	src := scenarioProfile()
	contents := append(profileFile(t, src), 0xde, 0xad, 0xbe, 0xef)
	st := &memStorage{files: map[string][]byte{DefaultPath: contents}}

	var p Profile
	status, err := Load(st, &p)
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, status)
}

func TestLoad_Truncated(t *testing.T) {
	full := profileFile(t, scenarioProfile())
	for _, tc := range []struct {
		size int
		blob string
	}{
		{0, "histogram"},
		{1, "histogram"},
		{HistogramSize - 1, "histogram"},
		{HistogramSize, "calibration"},
		{HistogramSize + 4, "calibration"},
		{FileSize - 1, "calibration"},
	} {
		st := &memStorage{files: map[string][]byte{DefaultPath: full[:tc.size]}}

		p := newTestProfile()
		status, err := Load(st, p)
		require.Error(t, err, "size %d", tc.size)
		assert.Equal(t, StatusInvalid, status, "size %d", tc.size)
		assert.False(t, status.OK())
		assert.ErrorIs(t, err, ErrShortRead)

		var shortErr *ShortReadError
		require.True(t, errors.As(err, &shortErr))
		assert.Equal(t, tc.blob, shortErr.Blob)
		// nothing half-loaded survives
		assert.Equal(t, Profile{}, *p)
	}
}

func TestLoad_BadMagic(t *testing.T) {
	src := scenarioProfile()
	src.Calibration.Magic = 0xCA11B8EE
	st := &memStorage{files: map[string][]byte{DefaultPath: profileFile(t, src)}}

	p := newTestProfile()
	status, err := Load(st, p)
	require.Error(t, err)
	assert.Equal(t, StatusInvalid, status)
	assert.ErrorIs(t, err, ErrBadMagic)
	assert.NotErrorIs(t, err, ErrShortRead)

	var magicErr *BadMagicError
	require.True(t, errors.As(err, &magicErr))
	assert.Equal(t, uint32(0xCA11B8EE), magicErr.Found)
	assert.Equal(t, Profile{}, *p)
}

func TestLoad_ReadError(t *testing.T) {
	boom := errors.New("flash read failed")
	full := profileFile(t, scenarioProfile())
	st := &memStorage{
		files:   map[string][]byte{DefaultPath: full[:HistogramSize+10]},
		readErr: boom,
	}

	var p Profile
	status, err := Load(st, &p)
	assert.Equal(t, StatusInvalid, status)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrShortRead)
}

func TestLoad_Missing(t *testing.T) {
	st := &memStorage{files: map[string][]byte{}}

	var p Profile
	status, err := Load(st, &p)
	assert.Equal(t, StatusAbsent, status)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_MountFailed(t *testing.T) {
	st := &memStorage{
		mountErr: errors.New("littlefs: corrupted superblock"),
		files:    map[string][]byte{DefaultPath: profileFile(t, scenarioProfile())},
	}

	var p Profile
	status, err := Load(st, &p)
	assert.Equal(t, StatusAbsent, status)
	assert.ErrorIs(t, err, ErrMount)
	assert.Equal(t, Profile{}, p)
}

func TestLoad_WithPath(t *testing.T) {
	st := &memStorage{files: map[string][]byte{"/cal/adc0.bin": profileFile(t, scenarioProfile())}}

	var p Profile
	status, err := Load(st, &p)
	assert.Equal(t, StatusAbsent, status)
	assert.ErrorIs(t, err, ErrNotFound)

	status, err = Load(st, &p, WithPath("/cal/adc0.bin"))
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, status)
}

func TestLoad_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	st := &memStorage{files: map[string][]byte{DefaultPath: profileFile(t, scenarioProfile())}}
	var p Profile
	_, err := Load(st, &p, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="calibration loaded"`)
	assert.Contains(t, buf.String(), "adc_min=17 adc_max=4071")

	buf.Reset()
	st.files[DefaultPath] = st.files[DefaultPath][:10]
	_, err = Load(st, &p, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "calibration file corrupt or incomplete")

	buf.Reset()
	delete(st.files, DefaultPath)
	_, err = Load(st, &p, WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no valid calibration in storage")
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "absent", StatusAbsent.String())
	assert.Equal(t, "invalid", StatusInvalid.String())
	assert.Equal(t, "validated", StatusValidated.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
