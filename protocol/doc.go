// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the wire messages of the Newswire
// synchronization protocol and their CBOR encoding.
//
// Every message is an [Envelope]: a channel tag, a [Kind]
// discriminant, and the per-kind payload fields. The channel tag
// scopes a deployment — envelopes for another channel are not errors,
// they are another application's traffic on a shared medium, and
// [Decode] reports them as [ErrChannelMismatch] so drivers can drop
// them silently.
//
// The protocol carries no sequence numbers and no acknowledgements
// beyond the heartbeat/response pairing. Loss, duplication, and
// reordering are compensated for by the receiving side: incremental
// events apply idempotently and full_sync snapshots erase any drift.
//
// Decoding never takes a driver down. A payload that is not CBOR, or
// an envelope missing a required field for its kind, yields a
// [MalformedMessageError]; a kind the decoder does not recognize is
// passed through untouched so the driver's dispatch handles it in one
// explicit fallback branch.
package protocol
