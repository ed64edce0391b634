// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/protocol"
)

// The distribution engine: every store mutation and sync request maps
// to exactly one outbound message. Send failures are logged and
// otherwise ignored — the medium is lossy anyway, and the periodic
// full_sync path repairs whatever a lost announcement left behind.

// announceArticle broadcasts a newly created article. Callers persist
// before announcing, so a broadcast never advertises state the store
// could silently lose on restart.
func (s *Server) announceArticle(a article.Article) {
	s.broadcast(protocol.NewArticleEvent(s.channel, a))
}

// announceDelete broadcasts a removal.
func (s *Server) announceDelete(articleID string) {
	s.broadcast(protocol.NewDeleteEvent(s.channel, articleID))
}

// broadcastFullSync pushes the authoritative snapshot to every
// listener. Used for the operator's "sync all".
func (s *Server) broadcastFullSync() {
	s.broadcast(protocol.NewFullSync(s.channel, s.store.List()))
}

// unicastFullSync answers one client's request_sync. The snapshot
// goes to the requester alone — a point-to-point question gets a
// point-to-point answer.
func (s *Server) unicastFullSync(address string) {
	s.unicast(address, protocol.NewFullSync(s.channel, s.store.List()))
}

// respondHeartbeat sends the direct reply to a client heartbeat.
func (s *Server) respondHeartbeat(address string) {
	s.unicast(address, protocol.NewHeartbeatResponse(s.channel))
}

// broadcastBeacon sends the periodic passive liveness beacon.
func (s *Server) broadcastBeacon() {
	s.broadcast(protocol.NewServerHeartbeat(s.channel))
}

func (s *Server) broadcast(env protocol.Envelope) {
	payload, err := protocol.Encode(env)
	if err != nil {
		s.log.Error("encoding broadcast failed", "kind", env.Kind, "error", err)
		return
	}
	if err := s.conn.Broadcast(payload); err != nil {
		s.log.Warn("broadcast send failed", "kind", env.Kind, "error", err)
	}
}

func (s *Server) unicast(address string, env protocol.Envelope) {
	payload, err := protocol.Encode(env)
	if err != nil {
		s.log.Error("encoding unicast failed", "kind", env.Kind, "error", err)
		return
	}
	if err := s.conn.Unicast(address, payload); err != nil {
		s.log.Warn("unicast send failed", "kind", env.Kind, "to", address, "error", err)
	}
}
