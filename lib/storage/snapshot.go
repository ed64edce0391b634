// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// fileMagic identifies a Newswire snapshot file. A file that does not
// start with these bytes is treated as corrupt, not decoded.
var fileMagic = []byte("NWSS")

// checksumSize is the length of the BLAKE3 digest stored after the
// magic, covering the compressed payload that follows it.
const checksumSize = 32

// ErrCorrupt reports that a snapshot file exists but failed its
// integrity checks (bad magic, checksum mismatch, or undecompressable
// payload). Callers treat this as "no snapshot" after warning.
var ErrCorrupt = errors.New("storage: snapshot file is corrupt")

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("storage: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("storage: zstd decoder initialization failed: " + err.Error())
	}
}

// SnapshotFile is a single-blob durable store at a fixed path. The
// zero value is not usable; construct with NewSnapshotFile.
type SnapshotFile struct {
	path string
}

// NewSnapshotFile returns a SnapshotFile backed by the given path. The
// parent directory must exist before Save is called.
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: path}
}

// Path returns the file path this snapshot is stored at.
func (s *SnapshotFile) Path() string { return s.path }

// Load reads the snapshot blob. Returns (nil, false, nil) when no file
// exists, (blob, true, nil) on success, and an error wrapping
// ErrCorrupt when the file exists but fails integrity checks. Other
// errors (permission denied) are returned as-is so the caller can
// distinguish "no snapshot" from "snapshot unreadable."
func (s *SnapshotFile) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading snapshot file %s: %w", s.path, err)
	}

	if len(data) < len(fileMagic)+checksumSize || !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return nil, false, fmt.Errorf("%w: %s: bad header", ErrCorrupt, s.path)
	}

	stored := data[len(fileMagic) : len(fileMagic)+checksumSize]
	payload := data[len(fileMagic)+checksumSize:]

	sum := blake3.Sum256(payload)
	if !bytes.Equal(stored, sum[:]) {
		return nil, false, fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, s.path)
	}

	blob, err := zstdDecoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return blob, true, nil
}

// Save atomically replaces the snapshot with blob. The blob is
// compressed, checksummed, written to a temporary file, fsynced, and
// renamed into place. The file is created with mode 0600.
func (s *SnapshotFile) Save(blob []byte) error {
	payload := zstdEncoder.EncodeAll(blob, nil)
	sum := blake3.Sum256(payload)

	data := make([]byte, 0, len(fileMagic)+checksumSize+len(payload))
	data = append(data, fileMagic...)
	data = append(data, sum[:]...)
	data = append(data, payload...)

	temporaryPath := s.path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}

	// Write, sync, close — in that order. If any step fails, remove the
	// temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}

	if err := os.Rename(temporaryPath, s.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot file into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(s.path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}
