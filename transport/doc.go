// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides the broadcast+unicast datagram capability
// the synchronization protocol runs over.
//
// The protocol core only requires [Conn]: broadcast a payload to every
// listener, unicast a payload to one observed address, and receive
// inbound packets on a channel. Delivery is unreliable by contract —
// packets may be lost, duplicated, or reordered, and the protocol
// layers above compensate. Selecting a physical interface and group
// address is configuration, not protocol.
//
// [UDPConn] is the production implementation: a single UDP socket
// joined to an IPv4 multicast group. Broadcasts are sends to the
// group; unicasts are sends to a peer's observed source address, so
// the server can answer a request_sync without any discovery protocol.
// Multicast loopback is left enabled so a server and client sharing a
// host still see each other.
//
// [Bus] and [MemoryConn] provide an in-process implementation for
// tests: same interface, same lossy semantics (a member with a full
// inbox drops packets rather than blocking the sender).
package transport
