// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"sync"
)

// Compile-time interface check.
var _ Conn = (*MemoryConn)(nil)

// Bus is an in-process datagram medium for tests. Members joined to
// the same Bus exchange broadcasts and unicasts without any network.
// Like the real medium, delivery is lossy: a member whose inbox is
// full drops the packet rather than blocking the sender.
type Bus struct {
	mu      sync.Mutex
	members map[string]*MemoryConn
}

// NewBus creates an empty in-process medium.
func NewBus() *Bus {
	return &Bus{members: make(map[string]*MemoryConn)}
}

// Join adds a member under the given address and returns its Conn.
// Joining an address twice replaces the previous member, which models
// a process restart reusing its port.
func (b *Bus) Join(address string) *MemoryConn {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn := &MemoryConn{
		bus:     b,
		address: address,
		packets: make(chan Packet, inboxCapacity),
	}
	b.members[address] = conn
	return conn
}

// deliver places a packet in the inbox of the member at address, if
// any. A missing member or a full inbox silently loses the packet,
// matching datagram semantics.
func (b *Bus) deliver(address string, packet Packet) {
	b.mu.Lock()
	member, ok := b.members[address]
	b.mu.Unlock()
	if !ok || member.isClosed() {
		return
	}
	select {
	case member.packets <- packet:
	default:
	}
}

// addresses returns a snapshot of current member addresses.
func (b *Bus) addresses() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	all := make([]string, 0, len(b.members))
	for address := range b.members {
		all = append(all, address)
	}
	return all
}

// MemoryConn is one member of a Bus.
type MemoryConn struct {
	bus     *Bus
	address string
	packets chan Packet

	mu     sync.Mutex
	closed bool
}

// Address returns the address this member joined under.
func (c *MemoryConn) Address() string { return c.address }

// Broadcast delivers payload to every other member of the bus. The
// sender does not hear its own broadcasts; the drivers built on this
// package drop self-traffic anyway, and excluding it here keeps test
// inboxes readable.
func (c *MemoryConn) Broadcast(payload []byte) error {
	if c.isClosed() {
		return fmt.Errorf("memory transport %s is closed", c.address)
	}
	for _, address := range c.bus.addresses() {
		if address == c.address {
			continue
		}
		c.bus.deliver(address, Packet{Payload: clonePayload(payload), From: c.address})
	}
	return nil
}

// Unicast delivers payload to the member at address. An unknown
// address loses the packet silently, like a datagram to a vacated
// port.
func (c *MemoryConn) Unicast(address string, payload []byte) error {
	if c.isClosed() {
		return fmt.Errorf("memory transport %s is closed", c.address)
	}
	c.bus.deliver(address, Packet{Payload: clonePayload(payload), From: c.address})
	return nil
}

// Packets returns the inbound packet stream.
func (c *MemoryConn) Packets() <-chan Packet { return c.packets }

// Close removes the member from the bus and closes its packet channel.
func (c *MemoryConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.bus.mu.Lock()
	if c.bus.members[c.address] == c {
		delete(c.bus.members, c.address)
	}
	c.bus.mu.Unlock()

	close(c.packets)
	return nil
}

func (c *MemoryConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// clonePayload copies a payload so a sender reusing its buffer cannot
// mutate a packet already in another member's inbox.
func clonePayload(payload []byte) []byte {
	clone := make([]byte, len(payload))
	copy(clone, payload)
	return clone
}
