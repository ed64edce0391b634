// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"github.com/newswire-foundation/newswire/article"
)

// Kind discriminates the envelope payload.
type Kind string

const (
	// KindHeartbeat is a client→server liveness ping. Registers the
	// client on the server and solicits a KindHeartbeatResponse.
	KindHeartbeat Kind = "heartbeat"

	// KindHeartbeatResponse is the server's unicast reply to a
	// heartbeat.
	KindHeartbeatResponse Kind = "heartbeat_response"

	// KindServerHeartbeat is the server's periodic broadcast beacon.
	// Passive: no reply is expected.
	KindServerHeartbeat Kind = "server_heartbeat"

	// KindRequestSync is a client→server request for the full article
	// set. Answered with a unicast KindFullSync to the sender only.
	KindRequestSync Kind = "request_sync"

	// KindFullSync carries the authoritative snapshot of the entire
	// collection, keyed by article id.
	KindFullSync Kind = "full_sync"

	// KindNewArticle announces a single newly created article.
	KindNewArticle Kind = "new_article"

	// KindDelete announces the removal of a single article by id.
	KindDelete Kind = "delete"
)

// Envelope is the wire shape of every protocol message. Which payload
// fields are populated depends on Kind; the rest stay zero and are
// omitted from the encoding.
type Envelope struct {
	// Channel is the logical channel tag shared by all participants
	// of one deployment. Envelopes tagged for another channel are
	// noise from an unrelated application and are ignored.
	Channel string `cbor:"channel"`

	// Kind discriminates the payload.
	Kind Kind `cbor:"type"`

	// ClientID identifies the sending client on heartbeat and
	// request_sync messages.
	ClientID string `cbor:"client_id,omitempty"`

	// Article is the payload of new_article.
	Article *article.Article `cbor:"article,omitempty"`

	// Articles is the payload of full_sync: the entire authoritative
	// collection keyed by id. An empty store syncs as an empty (or
	// absent) map; receivers treat nil as empty.
	Articles map[string]article.Article `cbor:"articles,omitempty"`

	// ArticleID is the payload of delete.
	ArticleID string `cbor:"article_id,omitempty"`
}

// NewHeartbeat builds a client liveness ping.
func NewHeartbeat(channel, clientID string) Envelope {
	return Envelope{Channel: channel, Kind: KindHeartbeat, ClientID: clientID}
}

// NewHeartbeatResponse builds the server's direct reply to a heartbeat.
func NewHeartbeatResponse(channel string) Envelope {
	return Envelope{Channel: channel, Kind: KindHeartbeatResponse}
}

// NewServerHeartbeat builds the server's broadcast beacon.
func NewServerHeartbeat(channel string) Envelope {
	return Envelope{Channel: channel, Kind: KindServerHeartbeat}
}

// NewRequestSync builds a client's request for the full article set.
func NewRequestSync(channel, clientID string) Envelope {
	return Envelope{Channel: channel, Kind: KindRequestSync, ClientID: clientID}
}

// NewFullSync builds an authoritative snapshot message from a list of
// articles.
func NewFullSync(channel string, articles []article.Article) Envelope {
	byID := make(map[string]article.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	return Envelope{Channel: channel, Kind: KindFullSync, Articles: byID}
}

// NewArticleEvent builds the announcement of a single new article.
func NewArticleEvent(channel string, a article.Article) Envelope {
	return Envelope{Channel: channel, Kind: KindNewArticle, Article: &a}
}

// NewDeleteEvent builds the announcement of a single removal.
func NewDeleteEvent(channel, articleID string) Envelope {
	return Envelope{Channel: channel, Kind: KindDelete, ArticleID: articleID}
}
