// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Newswire packages.
//
// [RequireReceive] and [RequireSend] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. These are the only place
// in the test suite where real wall-clock timeouts are used; protocol
// time itself always runs on a clock.FakeClock.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
