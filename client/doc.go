// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package client implements the display side of the Newswire
// protocol: the replica reconciliation engine, the local cache, the
// server-liveness tracker, and the event-loop driver tying them
// together.
//
// The replica converges on the server's article set despite arbitrary
// loss, duplication, and reordering of incremental events. Every
// apply rule is idempotent — a duplicate new_article is a no-op, a
// delete for an id never seen is a no-op — and a full_sync snapshot
// is the convergence backstop: applied at any time, it erases
// whatever drift the missed events left behind.
//
// Liveness is asymmetric: any traffic that is provably from
// the server flips serverConnected true immediately, but the flag
// only falls on a heartbeat tick that finds the quiet period longer
// than the heartbeat interval plus a grace window. Optimistic on
// receipt, pessimistic only on the timer — no per-message provenance
// bookkeeping needed.
//
// The display layer consumes exactly two things: the ordered replica
// snapshot and the connectivity flag. Both are safe to read from the
// rendering goroutine while the event loop runs.
package client
