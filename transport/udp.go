// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"syscall"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// inboxCapacity bounds the inbound packet queue. The event loop
// processes one packet per iteration; if it falls behind, excess
// packets are dropped like any other transport loss.
const inboxCapacity = 64

// maxDatagramSize is the read buffer size. UDP fragmentation handles
// payloads up to the protocol limit of 64 KiB; a full_sync larger
// than that needs a smaller collection, not a bigger buffer.
const maxDatagramSize = 65507

// Compile-time interface check.
var _ Conn = (*UDPConn)(nil)

// UDPConn is a Conn backed by one UDP socket joined to an IPv4
// multicast group. Broadcast sends to the group address; Unicast sends
// to a peer's observed address through the same socket, so replies
// originate from the port the peer already knows.
type UDPConn struct {
	socket *net.UDPConn
	group  *net.UDPAddr
	log    *slog.Logger

	packets   chan Packet
	closeOnce sync.Once
	closeErr  error
}

// DialUDP joins the multicast group given as "address:port" (for
// example "239.77.18.2:7355") and starts receiving. interfaceName
// optionally pins the multicast traffic to one network interface;
// empty means the system default.
func DialUDP(group, interfaceName string, log *slog.Logger) (*UDPConn, error) {
	groupAddress, err := net.ResolveUDPAddr("udp4", group)
	if err != nil {
		return nil, fmt.Errorf("resolving multicast group %q: %w", group, err)
	}
	if !groupAddress.IP.IsMulticast() {
		return nil, fmt.Errorf("group address %s is not an IPv4 multicast address", groupAddress.IP)
	}

	var networkInterface *net.Interface
	if interfaceName != "" {
		networkInterface, err = net.InterfaceByName(interfaceName)
		if err != nil {
			return nil, fmt.Errorf("looking up interface %q: %w", interfaceName, err)
		}
	}

	// The port must be shareable: a server and a client on the same
	// host both bind it. SO_REUSEADDR plus SO_REUSEPORT let every
	// binder coexist and receive the group's traffic.
	listenConfig := net.ListenConfig{Control: shareableSocket}
	packetListener, err := listenConfig.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", groupAddress.Port))
	if err != nil {
		return nil, fmt.Errorf("binding UDP port %d: %w", groupAddress.Port, err)
	}
	socket := packetListener.(*net.UDPConn)

	packetConn := ipv4.NewPacketConn(socket)
	if err := packetConn.JoinGroup(networkInterface, &net.UDPAddr{IP: groupAddress.IP}); err != nil {
		socket.Close()
		return nil, fmt.Errorf("joining multicast group %s: %w", groupAddress.IP, err)
	}
	// Loopback stays on: a server and client on the same host must see
	// each other. Each driver drops its own message kinds at dispatch.
	if err := packetConn.SetMulticastLoopback(true); err != nil {
		log.Warn("could not enable multicast loopback", "error", err)
	}
	if networkInterface != nil {
		if err := packetConn.SetMulticastInterface(networkInterface); err != nil {
			socket.Close()
			return nil, fmt.Errorf("pinning multicast to %s: %w", networkInterface.Name, err)
		}
	}

	conn := &UDPConn{
		socket:  socket,
		group:   groupAddress,
		log:     log,
		packets: make(chan Packet, inboxCapacity),
	}
	go conn.readLoop()
	return conn, nil
}

// shareableSocket marks the socket reusable before it binds, so
// several processes on one host can hold the multicast port at once.
func shareableSocket(network, address string, conn syscall.RawConn) error {
	var optErr error
	err := conn.Control(func(fd uintptr) {
		optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if optErr == nil {
			optErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		}
	})
	if err != nil {
		return err
	}
	return optErr
}

// Broadcast sends payload to the multicast group.
func (c *UDPConn) Broadcast(payload []byte) error {
	if _, err := c.socket.WriteToUDP(payload, c.group); err != nil {
		return fmt.Errorf("multicast send: %w", err)
	}
	return nil
}

// Unicast sends payload to one peer's observed address.
func (c *UDPConn) Unicast(address string, payload []byte) error {
	peer, err := net.ResolveUDPAddr("udp4", address)
	if err != nil {
		return fmt.Errorf("resolving peer address %q: %w", address, err)
	}
	if _, err := c.socket.WriteToUDP(payload, peer); err != nil {
		return fmt.Errorf("unicast send to %s: %w", address, err)
	}
	return nil
}

// Packets returns the inbound packet stream.
func (c *UDPConn) Packets() <-chan Packet { return c.packets }

// Close leaves the group and closes the packet channel.
func (c *UDPConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.socket.Close()
	})
	return c.closeErr
}

// LocalAddr returns the socket's local address, for logging.
func (c *UDPConn) LocalAddr() string { return c.socket.LocalAddr().String() }

func (c *UDPConn) readLoop() {
	defer close(c.packets)

	buffer := make([]byte, maxDatagramSize)
	for {
		n, sender, err := c.socket.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			c.log.Warn("UDP receive failed", "error", err)
			continue
		}

		payload := make([]byte, n)
		copy(payload, buffer[:n])

		select {
		case c.packets <- Packet{Payload: payload, From: sender.String()}:
		default:
			// Inbox full. The medium is lossy anyway; dropping here is
			// indistinguishable from loss in flight.
			c.log.Debug("inbound packet dropped, inbox full", "from", sender.String())
		}
	}
}
