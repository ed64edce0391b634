// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"fmt"

	"github.com/newswire-foundation/newswire/lib/codec"
)

// ErrChannelMismatch reports an envelope tagged for a different
// logical channel. Not a protocol fault: the transport medium is
// shared, and another application's traffic is dropped silently.
var ErrChannelMismatch = errors.New("protocol: envelope for a different channel")

// MalformedMessageError reports a payload that could not be decoded
// into a usable envelope. Drivers log these and drop the packet; they
// never propagate.
type MalformedMessageError struct {
	Reason string
	cause  error
}

func (e *MalformedMessageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("protocol: malformed message: %s: %v", e.Reason, e.cause)
	}
	return "protocol: malformed message: " + e.Reason
}

func (e *MalformedMessageError) Unwrap() error { return e.cause }

// Encode serializes an envelope for transmission.
func Encode(env Envelope) ([]byte, error) {
	data, err := codec.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", env.Kind, err)
	}
	return data, nil
}

// Decode parses a transport payload into an Envelope and checks it
// against the expected channel.
//
// Undecodable payloads and envelopes missing required fields for a
// known kind return a *MalformedMessageError. Envelopes for another
// channel return ErrChannelMismatch. An envelope whose kind is not
// recognized decodes successfully — unknown kinds are the dispatch
// layer's single fallback branch, not a decode failure, so that a
// newer peer's messages degrade to a logged drop instead of an error
// path.
func Decode(payload []byte, channel string) (Envelope, error) {
	var env Envelope
	if err := codec.Unmarshal(payload, &env); err != nil {
		return Envelope{}, &MalformedMessageError{Reason: "not a CBOR envelope", cause: err}
	}

	if env.Channel != channel {
		return Envelope{}, fmt.Errorf("%w: got %q, expected %q", ErrChannelMismatch, env.Channel, channel)
	}
	if env.Kind == "" {
		return Envelope{}, &MalformedMessageError{Reason: "missing type discriminant"}
	}

	switch env.Kind {
	case KindHeartbeat, KindRequestSync:
		if env.ClientID == "" {
			return Envelope{}, &MalformedMessageError{Reason: string(env.Kind) + " without client_id"}
		}
	case KindNewArticle:
		if env.Article == nil {
			return Envelope{}, &MalformedMessageError{Reason: "new_article without article"}
		}
		if env.Article.ID == "" {
			return Envelope{}, &MalformedMessageError{Reason: "new_article with unidentified article"}
		}
	case KindDelete:
		if env.ArticleID == "" {
			return Envelope{}, &MalformedMessageError{Reason: "delete without article_id"}
		}
	case KindFullSync, KindHeartbeatResponse, KindServerHeartbeat:
		// No required fields. A full_sync of an empty store omits the
		// articles map entirely.
	default:
		// Unknown kind: structurally valid, semantically unknown.
		// Returned as-is for the dispatcher's fallback branch.
	}

	return env, nil
}
