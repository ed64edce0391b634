// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/lib/clock"
	"github.com/newswire-foundation/newswire/protocol"
	"github.com/newswire-foundation/newswire/transport"
)

// IntentAction identifies an operator request.
type IntentAction string

const (
	// ActionCreate publishes a new article.
	ActionCreate IntentAction = "create"
	// ActionDelete removes an article by id.
	ActionDelete IntentAction = "delete"
	// ActionSyncAll broadcasts a full snapshot to every client.
	ActionSyncAll IntentAction = "sync_all"
	// ActionList asks for the current article collection.
	ActionList IntentAction = "list"
	// ActionClients asks for the ever-seen client ids.
	ActionClients IntentAction = "clients"
)

// Intent is one operator request, produced by the console adapter and
// consumed by the event loop. Result, when non-nil, receives exactly
// one IntentResult; it must be buffered (capacity 1) so the loop
// never blocks on a departed requester.
type Intent struct {
	Action   IntentAction
	Headline string
	Content  string

	// ArticleID is the target of ActionDelete.
	ArticleID string

	Result chan<- IntentResult
}

// IntentResult is the loop's reply to an intent.
type IntentResult struct {
	// Article is the created article for ActionCreate.
	Article *article.Article

	// Removed reports whether ActionDelete removed anything.
	Removed bool

	// Articles is the collection snapshot for ActionList.
	Articles []article.Article

	// Clients is the registry snapshot for ActionClients.
	Clients []string

	// Err reports a persistence warning. The mutation itself
	// succeeded in memory and was distributed regardless.
	Err error
}

// Params collects the dependencies of a Server.
type Params struct {
	Store             *article.Store
	Registry          *Registry
	Conn              transport.Conn
	Clock             clock.Clock
	Log               *slog.Logger
	Channel           string
	HeartbeatInterval time.Duration
}

// Server is the publisher-side protocol driver. Construct with New,
// then call Run; all state it owns is touched only from the loop.
type Server struct {
	store    *article.Store
	registry *Registry
	conn     transport.Conn
	clock    clock.Clock
	log      *slog.Logger

	channel           string
	heartbeatInterval time.Duration
	intents           chan Intent
}

// New creates a Server. The store should already be loaded.
func New(p Params) *Server {
	return &Server{
		store:             p.Store,
		registry:          p.Registry,
		conn:              p.Conn,
		clock:             p.Clock,
		log:               p.Log,
		channel:           p.Channel,
		heartbeatInterval: p.HeartbeatInterval,
		intents:           make(chan Intent),
	}
}

// Intents returns the channel the operator console feeds.
func (s *Server) Intents() chan<- Intent { return s.intents }

// Run drives the event loop until ctx is cancelled (returns nil) or
// the transport closes (returns an error). Exactly one event — an
// inbound packet, a beacon tick, or an operator intent — is processed
// per iteration.
func (s *Server) Run(ctx context.Context) error {
	beacon := s.clock.NewTicker(s.heartbeatInterval)
	defer beacon.Stop()

	s.log.Info("server loop started",
		"channel", s.channel,
		"articles", s.store.Len(),
		"beacon_interval", s.heartbeatInterval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case packet, ok := <-s.conn.Packets():
			if !ok {
				return errors.New("transport closed")
			}
			s.handlePacket(packet)
		case <-beacon.C:
			s.broadcastBeacon()
		case intent := <-s.intents:
			s.handleIntent(intent)
		}
	}
}

// handlePacket decodes and dispatches one inbound packet. Nothing in
// here is fatal: noise is dropped, logged at most.
func (s *Server) handlePacket(packet transport.Packet) {
	env, err := protocol.Decode(packet.Payload, s.channel)
	if err != nil {
		var malformed *protocol.MalformedMessageError
		switch {
		case errors.Is(err, protocol.ErrChannelMismatch):
			s.log.Debug("ignoring foreign-channel packet", "from", packet.From)
		case errors.As(err, &malformed):
			s.log.Warn("dropping malformed packet", "from", packet.From, "error", err)
		default:
			s.log.Warn("dropping undecodable packet", "from", packet.From, "error", err)
		}
		return
	}

	switch env.Kind {
	case protocol.KindHeartbeat:
		if s.registry.MarkSeen(env.ClientID, packet.From) {
			s.log.Info("new client registered", "client", env.ClientID, "address", packet.From, "clients", s.registry.Count())
		}
		s.respondHeartbeat(packet.From)

	case protocol.KindRequestSync:
		s.registry.MarkSeen(env.ClientID, packet.From)
		s.log.Info("sync requested", "client", env.ClientID, "articles", s.store.Len())
		s.unicastFullSync(packet.From)

	case protocol.KindHeartbeatResponse, protocol.KindServerHeartbeat,
		protocol.KindNewArticle, protocol.KindFullSync, protocol.KindDelete:
		// Server-originated kinds looped back by the medium, or
		// another publisher misconfigured onto our channel. Dropped.
		s.log.Debug("ignoring server-originated kind", "kind", env.Kind, "from", packet.From)

	default:
		s.log.Warn("ignoring unknown message kind", "kind", env.Kind, "from", packet.From)
	}
}

// handleIntent executes one operator request.
func (s *Server) handleIntent(intent Intent) {
	var result IntentResult

	switch intent.Action {
	case ActionCreate:
		a, err := s.store.Create(intent.Headline, intent.Content)
		if err != nil {
			// Best-effort durability: the article lives in memory and
			// is distributed anyway; the operator gets the warning.
			s.log.Warn("article not persisted, continuing in memory", "id", a.ID, "error", err)
		}
		s.announceArticle(a)
		result.Article = &a
		result.Err = err

	case ActionDelete:
		removed, err := s.store.Delete(intent.ArticleID)
		if err != nil {
			s.log.Warn("deletion not persisted, continuing in memory", "id", intent.ArticleID, "error", err)
		}
		if removed {
			s.announceDelete(intent.ArticleID)
		}
		result.Removed = removed
		result.Err = err

	case ActionSyncAll:
		s.log.Info("broadcasting full sync", "articles", s.store.Len())
		s.broadcastFullSync()

	case ActionList:
		result.Articles = s.store.List()

	case ActionClients:
		result.Clients = s.registry.ClientIDs()

	default:
		s.log.Warn("ignoring unknown intent", "action", intent.Action)
	}

	if intent.Result != nil {
		select {
		case intent.Result <- result:
		default:
			s.log.Warn("intent result dropped, requester not waiting", "action", intent.Action)
		}
	}
}
