// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Newswire's standard CBOR encoding configuration.
//
// Everything Newswire serializes — protocol envelopes on the wire, the
// server's snapshot file, the client's replica cache — goes through this
// package so that every component encodes identically without
// duplicating configuration.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes, which keeps snapshot
// files byte-stable across rewrites of unchanged state.
//
// The decoder silently ignores unknown fields, so an older client can
// decode envelopes from a newer server and vice versa. Forward
// compatibility on an unauthenticated broadcast medium matters more
// than strictness: a field we do not understand is indistinguishable
// from transport noise, and noise is dropped, never fatal.
package codec
