// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage provides the durable snapshot file used by the
// article store and the client replica cache fallback.
//
// A SnapshotFile holds a single opaque blob. Writes are atomic: the
// blob is written to a temporary file in the same directory, fsynced,
// and renamed into place, so a reader never observes a partial write
// even across power loss. The blob is zstd-compressed and carries a
// BLAKE3 checksum so that a torn or bit-rotted file is detected on
// load instead of being decoded into garbage state.
//
// Corruption is never fatal. Load distinguishes three cases:
// no file (first run), a well-formed snapshot, and a corrupt file. The
// caller degrades to an empty collection on corruption and keeps
// operating; durability is best-effort and never blocks protocol
// progress.
package storage
