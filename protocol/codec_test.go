// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"testing"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/lib/codec"
)

const testChannel = "newswire-test"

func TestEncodeDecodeHeartbeat(t *testing.T) {
	payload, err := Encode(NewHeartbeat(testChannel, "client-7"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if env.Kind != KindHeartbeat {
		t.Errorf("Kind = %q, want %q", env.Kind, KindHeartbeat)
	}
	if env.ClientID != "client-7" {
		t.Errorf("ClientID = %q, want %q", env.ClientID, "client-7")
	}
}

func TestEncodeDecodeNewArticle(t *testing.T) {
	a := article.Article{ID: "12", Headline: "wire restored", Content: "after a brief outage", Timestamp: "2026-03-01 10:15:00"}
	payload, err := Encode(NewArticleEvent(testChannel, a))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if env.Kind != KindNewArticle {
		t.Fatalf("Kind = %q, want %q", env.Kind, KindNewArticle)
	}
	if env.Article == nil || *env.Article != a {
		t.Errorf("Article = %+v, want %+v", env.Article, a)
	}
}

func TestDecodeFullSyncPreservesIDKeys(t *testing.T) {
	articles := []article.Article{
		{ID: "1", Headline: "one"},
		{ID: "2", Headline: "two"},
	}
	payload, err := Encode(NewFullSync(testChannel, articles))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(env.Articles) != 2 {
		t.Fatalf("Articles len = %d, want 2", len(env.Articles))
	}
	if env.Articles["2"].Headline != "two" {
		t.Errorf("Articles[2].Headline = %q, want %q", env.Articles["2"].Headline, "two")
	}
}

func TestDecodeEmptyFullSync(t *testing.T) {
	payload, err := Encode(NewFullSync(testChannel, nil))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode of empty full_sync: %v", err)
	}
	if len(env.Articles) != 0 {
		t.Errorf("Articles len = %d, want 0", len(env.Articles))
	}
}

func TestDecodeWrongChannel(t *testing.T) {
	payload, err := Encode(NewServerHeartbeat("someone-elses-app"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err = Decode(payload, testChannel)
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("Decode of foreign channel = %v, want ErrChannelMismatch", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0x00, 0xff, 0x13, 0x37}, testChannel)
	var malformed *MalformedMessageError
	if !errors.As(err, &malformed) {
		t.Fatalf("Decode of garbage = %v, want MalformedMessageError", err)
	}
}

func TestDecodeMissingKind(t *testing.T) {
	payload, err := codec.Marshal(map[string]any{"channel": testChannel})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	_, err = Decode(payload, testChannel)
	var malformed *MalformedMessageError
	if !errors.As(err, &malformed) {
		t.Fatalf("Decode without type = %v, want MalformedMessageError", err)
	}
}

func TestDecodeHeartbeatWithoutClientID(t *testing.T) {
	payload, err := codec.Marshal(map[string]any{"channel": testChannel, "type": "heartbeat"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	_, err = Decode(payload, testChannel)
	var malformed *MalformedMessageError
	if !errors.As(err, &malformed) {
		t.Fatalf("Decode of anonymous heartbeat = %v, want MalformedMessageError", err)
	}
}

func TestDecodeUnknownKindPassesThrough(t *testing.T) {
	payload, err := codec.Marshal(map[string]any{"channel": testChannel, "type": "retract_edition"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode of unknown kind should succeed for the dispatch fallback, got: %v", err)
	}
	if env.Kind != "retract_edition" {
		t.Errorf("Kind = %q, want the unknown tag preserved", env.Kind)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	payload, err := codec.Marshal(map[string]any{
		"channel":  testChannel,
		"type":     "server_heartbeat",
		"priority": 9, // a field this version does not know
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	env, err := Decode(payload, testChannel)
	if err != nil {
		t.Fatalf("Decode with extra field: %v", err)
	}
	if env.Kind != KindServerHeartbeat {
		t.Errorf("Kind = %q, want %q", env.Kind, KindServerHeartbeat)
	}
}
