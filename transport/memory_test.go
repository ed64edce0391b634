// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"testing"
	"time"

	"github.com/newswire-foundation/newswire/lib/testutil"
)

func TestBroadcastReachesAllOtherMembers(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")
	clientA := bus.Join("client-a:7355")
	clientB := bus.Join("client-b:7355")

	if err := server.Broadcast([]byte("edition")); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	for _, member := range []*MemoryConn{clientA, clientB} {
		packet := testutil.RequireReceive(t, member.Packets(), time.Second, "broadcast to %s", member.Address())
		if string(packet.Payload) != "edition" {
			t.Errorf("payload = %q, want %q", packet.Payload, "edition")
		}
		if packet.From != "server:7355" {
			t.Errorf("From = %q, want server:7355", packet.From)
		}
	}

	// The sender does not hear itself.
	testutil.RequireNoReceive(t, server.Packets(), 50*time.Millisecond, "sender should not receive its own broadcast")
}

func TestUnicastReachesOnlyTheTarget(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")
	clientA := bus.Join("client-a:7355")
	clientB := bus.Join("client-b:7355")

	if err := server.Unicast(clientA.Address(), []byte("just for you")); err != nil {
		t.Fatalf("Unicast: %v", err)
	}

	packet := testutil.RequireReceive(t, clientA.Packets(), time.Second, "unicast to client-a")
	if string(packet.Payload) != "just for you" {
		t.Errorf("payload = %q, want %q", packet.Payload, "just for you")
	}
	testutil.RequireNoReceive(t, clientB.Packets(), 50*time.Millisecond, "unicast must not reach other members")
}

func TestUnicastToUnknownAddressIsLost(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")

	if err := server.Unicast("nobody:9", []byte("void")); err != nil {
		t.Errorf("Unicast to unknown address should be silent loss, got: %v", err)
	}
}

func TestFullInboxDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")
	bus.Join("slow-client:7355")

	// Overfill the inbox; the sends past capacity must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < inboxCapacity+10; i++ {
			server.Broadcast([]byte("tick"))
		}
	}()
	testutil.RequireClosed(t, done, time.Second, "sender must never block on a full inbox")
}

func TestClosedMemberStopsReceiving(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")
	client := bus.Join("client:7355")

	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := server.Broadcast([]byte("late")); err != nil {
		t.Fatalf("Broadcast after member close: %v", err)
	}

	// The packet channel is closed; receiving reports no more values.
	if _, ok := <-client.Packets(); ok {
		t.Error("closed member should not receive packets")
	}
}

func TestSenderBufferReuseDoesNotCorruptPackets(t *testing.T) {
	bus := NewBus()
	server := bus.Join("server:7355")
	client := bus.Join("client:7355")

	buffer := []byte("original")
	server.Broadcast(buffer)
	copy(buffer, "REWRITE!")

	packet := testutil.RequireReceive(t, client.Packets(), time.Second, "broadcast")
	if string(packet.Payload) != "original" {
		t.Errorf("payload = %q, want %q (payload must be copied on send)", packet.Payload, "original")
	}
}
