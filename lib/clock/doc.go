// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Every component with heartbeat or liveness behavior accepts a Clock
// instead of calling time.Now, time.After, or time.NewTicker directly.
// Production code injects Real(); tests inject Fake() and advance time
// explicitly with Advance, which makes the liveness-deadline properties
// deterministic instead of sleep-based.
//
// # Wiring Pattern
//
// Add a Clock field to structs that use time:
//
//	type Client struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
//	client := NewClient(..., c)
//	// ... start the event loop ...
//	c.WaitForTimers(1)             // loop registered its heartbeat ticker
//	c.Advance(45 * time.Second)    // deterministically fires it
//
// WaitForTimers closes the race between a goroutine registering a timer
// and the test advancing the clock.
package clock
