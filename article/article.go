// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package article

// Article is one published news item. Immutable once created; the only
// lifecycle transition is deletion. Owned exclusively by the server's
// Store — every copy on a client is a replica, never an original.
type Article struct {
	// ID is a decimal string assigned by the server. Ids are unique
	// and strictly increasing for the lifetime of the store,
	// including across restarts.
	ID string `cbor:"id"`

	// Headline is the short display title.
	Headline string `cbor:"headline"`

	// Content is the article body.
	Content string `cbor:"content"`

	// Timestamp is the server's local time at creation, formatted for
	// display. Clients treat it as opaque text.
	Timestamp string `cbor:"timestamp"`
}

// TimestampFormat is the layout articles are stamped with at creation.
const TimestampFormat = "2006-01-02 15:04:05"
