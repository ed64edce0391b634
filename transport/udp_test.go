// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"io"
	"log/slog"
	"testing"
)

// testGroup uses a port outside the default deployment range so a
// running newswire instance on the host does not interfere.
const testGroup = "239.77.18.2:17355"

func TestDialUDPAllowsMultipleParticipantsOnOneHost(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := DialUDP(testGroup, "", log)
	if err != nil {
		// No multicast-capable interface in this environment; the
		// shared-bind behavior cannot be exercised at all.
		t.Skipf("multicast unavailable: %v", err)
	}
	defer first.Close()

	// A server and a client on the same host both bind the group
	// port; the second bind must not fail with address-in-use.
	second, err := DialUDP(testGroup, "", log)
	if err != nil {
		t.Fatalf("second participant on the same host: %v", err)
	}
	defer second.Close()

	third, err := DialUDP(testGroup, "", log)
	if err != nil {
		t.Fatalf("third participant on the same host: %v", err)
	}
	defer third.Close()
}
