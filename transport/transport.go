// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package transport

// Packet is one inbound datagram. From is the sender's transport
// address in a form usable with Conn.Unicast, letting the server
// answer point-to-point without a discovery mechanism.
type Packet struct {
	Payload []byte
	From    string
}

// Conn is the abstract send/receive capability the protocol drivers
// run on. Implementations provide no delivery, ordering, or
// deduplication guarantees; the protocol is built to tolerate that.
type Conn interface {
	// Broadcast sends payload to every listener on the medium,
	// including none. An error means the local send failed, not that
	// delivery failed. Client→server traffic is deliberately
	// broadcast too: a client never holds a server address, so its
	// heartbeat and request_sync go to the whole medium and the
	// server answers to the observed Packet.From.
	Broadcast(payload []byte) error

	// Unicast sends payload to the peer at the given transport
	// address, as previously observed in a Packet's From field.
	Unicast(address string, payload []byte) error

	// Packets returns the inbound packet stream. The channel is
	// closed when the Conn is closed.
	Packets() <-chan Packet

	// Close tears the transport down and closes the packet channel.
	Close() error
}
