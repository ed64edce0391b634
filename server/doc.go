// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the publisher side of the Newswire
// protocol: the event-loop driver, the client registry, and the
// distribution engine that turns store mutations and sync requests
// into outbound messages.
//
// The server runs a single-goroutine event loop. Each iteration
// handles exactly one event — an inbound packet, a heartbeat tick, or
// an operator intent — to completion before waiting again, so the
// article store and registry need no locking: the loop's turn-taking
// is their concurrency control.
//
// Distribution rules: a created article is persisted first and then
// broadcast; a deletion is broadcast after removal; a request_sync is
// answered with a unicast full_sync to the requester only, never
// broadcast; the operator can force a broadcast full_sync at any
// time. The periodic server_heartbeat beacon is independent of store
// state.
//
// The client registry is an ever-seen set: clients are added
// idempotently on any traffic and never expire. A client that stops
// heartbeating stays counted. This is intentional, inherited
// behavior — expiry would change the client counts the operator sees
// and is deliberately not implemented.
package server
