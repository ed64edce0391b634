// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"sort"
	"time"

	"github.com/newswire-foundation/newswire/lib/clock"
)

// clientRecord is what the server remembers about one client.
type clientRecord struct {
	// address is the client's last observed transport address, used
	// for unicast replies. Updated on every message from the client.
	address string

	firstSeen time.Time
	lastSeen  time.Time
}

// Registry is the server's ever-seen set of clients. Entries are
// added idempotently and never removed; there is deliberately no
// expiry (see the package comment). Not safe for concurrent use —
// owned by the event loop.
type Registry struct {
	clock   clock.Clock
	clients map[string]*clientRecord
}

// NewRegistry creates an empty registry.
func NewRegistry(clk clock.Clock) *Registry {
	return &Registry{
		clock:   clk,
		clients: make(map[string]*clientRecord),
	}
}

// MarkSeen records traffic from a client, remembering its current
// transport address for unicast replies. Returns true when the client
// was not previously known.
func (r *Registry) MarkSeen(clientID, address string) bool {
	now := r.clock.Now()
	if record, known := r.clients[clientID]; known {
		record.address = address
		record.lastSeen = now
		return false
	}
	r.clients[clientID] = &clientRecord{
		address:   address,
		firstSeen: now,
		lastSeen:  now,
	}
	return true
}

// Address returns the last observed transport address for a client.
func (r *Registry) Address(clientID string) (string, bool) {
	record, known := r.clients[clientID]
	if !known {
		return "", false
	}
	return record.address, true
}

// Count returns the number of clients ever seen.
func (r *Registry) Count() int { return len(r.clients) }

// ClientIDs returns all known client ids, sorted for stable operator
// output.
func (r *Registry) ClientIDs() []string {
	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
