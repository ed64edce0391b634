// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/lib/clock"
	"github.com/newswire-foundation/newswire/protocol"
	"github.com/newswire-foundation/newswire/transport"
)

// ReplicaStore persists the replica between runs. Cache satisfies it;
// tests substitute in-memory recorders.
type ReplicaStore interface {
	SaveReplica([]article.Article) error
}

// Params collects the dependencies of a Client.
type Params struct {
	// ClientID identifies this display in heartbeats and sync
	// requests. Stable across restarts when it comes from the cache.
	ClientID string

	// Replica is the starting state, usually loaded from the cache.
	// Nil means start empty.
	Replica *Replica

	// Store receives the replica after every change. Nil disables
	// persistence.
	Store ReplicaStore

	Conn  transport.Conn
	Clock clock.Clock
	Log   *slog.Logger

	Channel string

	// HeartbeatInterval paces the client's own heartbeats and, summed
	// with Grace, bounds how long server silence is tolerated before
	// the connection is declared lost.
	HeartbeatInterval time.Duration
	Grace             time.Duration
}

// Client is the display-side protocol driver. Construct with New, then
// call Run; the replica and liveness state are touched only from the
// loop, which publishes copies for Snapshot and Connected.
type Client struct {
	clientID string
	replica  *Replica
	store    ReplicaStore
	conn     transport.Conn
	clock    clock.Clock
	log      *slog.Logger

	channel           string
	heartbeatInterval time.Duration
	grace             time.Duration

	// Loop-owned liveness and resync state.
	connected  bool
	lastServer time.Time
	synced     bool
	resyncWait <-chan time.Time
	resync     *backoff.ExponentialBackOff

	mu            sync.RWMutex
	view          []article.Article
	viewConnected bool
}

// New creates a Client.
func New(p Params) *Client {
	replica := p.Replica
	if replica == nil {
		replica = NewReplica()
	}

	// The backoff only computes intervals; the waiting itself goes
	// through the clock so tests drive it deterministically.
	resync := backoff.NewExponentialBackOff()
	resync.InitialInterval = 2 * time.Second
	resync.Multiplier = 2
	resync.MaxInterval = 30 * time.Second
	resync.MaxElapsedTime = 0
	resync.RandomizationFactor = 0

	c := &Client{
		clientID:          p.ClientID,
		replica:           replica,
		store:             p.Store,
		conn:              p.Conn,
		clock:             p.Clock,
		log:               p.Log,
		channel:           p.Channel,
		heartbeatInterval: p.HeartbeatInterval,
		grace:             p.Grace,
		resync:            resync,
	}
	c.view = replica.Articles()
	return c
}

// Run drives the event loop until ctx is cancelled (returns nil) or
// the transport closes (returns an error). On entry it broadcasts a
// heartbeat and a sync request; the request is retried on a growing
// interval until the first snapshot lands.
func (c *Client) Run(ctx context.Context) error {
	heartbeat := c.clock.NewTicker(c.heartbeatInterval)
	defer heartbeat.Stop()

	c.log.Info("client loop started",
		"client", c.clientID,
		"channel", c.channel,
		"cached_articles", c.replica.Len())

	c.sendHeartbeat()
	c.requestSync()

	for {
		select {
		case <-ctx.Done():
			return nil
		case packet, ok := <-c.conn.Packets():
			if !ok {
				return errors.New("transport closed")
			}
			c.handlePacket(packet)
		case <-heartbeat.C:
			c.sendHeartbeat()
			c.checkLiveness()
		case <-c.resyncWait:
			if !c.synced {
				c.log.Info("sync request unanswered, retrying")
				c.requestSync()
			} else {
				c.resyncWait = nil
			}
		}
	}
}

// Snapshot returns the current replica in display order. Safe to call
// from any goroutine while the loop runs.
func (c *Client) Snapshot() []article.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	view := make([]article.Article, len(c.view))
	copy(view, c.view)
	return view
}

// Connected reports whether the publisher is currently considered
// reachable. Safe to call from any goroutine while the loop runs.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewConnected
}

// handlePacket decodes and dispatches one inbound packet. The medium
// carries every participant's traffic, so packets from other displays
// (and our own looped-back sends) land here and are dropped quietly.
func (c *Client) handlePacket(packet transport.Packet) {
	env, err := protocol.Decode(packet.Payload, c.channel)
	if err != nil {
		var malformed *protocol.MalformedMessageError
		switch {
		case errors.Is(err, protocol.ErrChannelMismatch):
			c.log.Debug("ignoring foreign-channel packet", "from", packet.From)
		case errors.As(err, &malformed):
			c.log.Warn("dropping malformed packet", "from", packet.From, "error", err)
		default:
			c.log.Warn("dropping undecodable packet", "from", packet.From, "error", err)
		}
		return
	}

	switch env.Kind {
	case protocol.KindNewArticle:
		c.markAlive()
		if c.replica.ApplyNew(*env.Article) {
			c.log.Info("article received", "id", env.Article.ID, "headline", env.Article.Headline)
			c.persist()
		} else {
			c.log.Debug("duplicate article delivery", "id", env.Article.ID)
		}
		c.publish()

	case protocol.KindDelete:
		c.markAlive()
		if c.replica.ApplyDelete(env.ArticleID) {
			c.log.Info("article deleted", "id", env.ArticleID)
			c.persist()
		} else {
			c.log.Debug("delete for absent article", "id", env.ArticleID)
		}
		c.publish()

	case protocol.KindFullSync:
		c.markAlive()
		c.replica.ApplyFullSync(env.Articles)
		c.synced = true
		c.resyncWait = nil
		c.log.Info("replica synchronized", "articles", c.replica.Len())
		c.persist()
		c.publish()

	case protocol.KindHeartbeatResponse, protocol.KindServerHeartbeat:
		c.markAlive()
		c.publish()
		c.log.Debug("server liveness confirmed", "kind", env.Kind)

	case protocol.KindHeartbeat, protocol.KindRequestSync:
		// Another display on the shared medium, or our own send
		// looped back. Not evidence of server liveness.
		c.log.Debug("ignoring client-originated kind", "kind", env.Kind, "from", packet.From)

	default:
		c.log.Warn("ignoring unknown message kind", "kind", env.Kind, "from", packet.From)
	}
}

// markAlive records proof of server liveness. Only kinds the publisher
// alone originates reach here.
func (c *Client) markAlive() {
	c.lastServer = c.clock.Now()
	if !c.connected {
		c.connected = true
		c.log.Info("server connection established")
	}
}

// checkLiveness runs on the heartbeat tick and is the only place the
// connected flag falls: raised eagerly on receipt, lowered only after
// a full interval plus grace of silence.
func (c *Client) checkLiveness() {
	if !c.connected {
		return
	}
	quiet := c.clock.Now().Sub(c.lastServer)
	if quiet <= c.heartbeatInterval+c.grace {
		return
	}
	c.connected = false
	c.log.Warn("server connection lost", "quiet", quiet)
	// The publisher may have restarted with state we never heard
	// about. Re-enter the sync loop so its return brings a snapshot.
	c.synced = false
	c.resync.Reset()
	c.resyncWait = c.clock.After(c.resync.NextBackOff())
	c.publish()
}

// requestSync broadcasts a snapshot request and arms the retry timer.
func (c *Client) requestSync() {
	c.send(protocol.NewRequestSync(c.channel, c.clientID))
	c.resyncWait = c.clock.After(c.resync.NextBackOff())
}

func (c *Client) sendHeartbeat() {
	c.send(protocol.NewHeartbeat(c.channel, c.clientID))
}

func (c *Client) send(env protocol.Envelope) {
	payload, err := protocol.Encode(env)
	if err != nil {
		c.log.Warn("encoding message failed", "kind", env.Kind, "error", err)
		return
	}
	if err := c.conn.Broadcast(payload); err != nil {
		c.log.Warn("broadcast failed", "kind", env.Kind, "error", err)
	}
}

// persist writes the replica through to the store, best effort.
func (c *Client) persist() {
	if c.store == nil {
		return
	}
	if err := c.store.SaveReplica(c.replica.Articles()); err != nil {
		c.log.Warn("replica not persisted, continuing in memory", "error", err)
	}
}

// publish refreshes the copies Snapshot and Connected serve.
func (c *Client) publish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = c.replica.Articles()
	c.viewConnected = c.connected
}
