// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package article defines the news article record and the server's
// authoritative article store.
//
// The store owns every article; clients only ever hold copies. Ids are
// decimal strings assigned from a monotonically increasing counter that
// survives restarts: on load the counter is recomputed as one past the
// highest id present in the snapshot, so a deleted-then-restarted store
// never reissues an id. Deleting an id removes the record but never
// frees the id for reuse.
//
// Durability is best-effort. A failed save is reported to the caller
// and logged, but the in-memory mutation is kept; the protocol never
// blocks on the disk.
package article
