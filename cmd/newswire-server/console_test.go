// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"strings"
	"testing"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/server"
)

// scriptConsole runs the console over a fixed input script against a
// stub loop and returns the intents it produced and the output text.
func scriptConsole(t *testing.T, script string, respond func(server.Intent) server.IntentResult) ([]server.Intent, string) {
	t.Helper()

	intents := make(chan server.Intent)
	var seen []server.Intent
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		for intent := range intents {
			seen = append(seen, intent)
			if intent.Result != nil {
				intent.Result <- respond(intent)
			}
		}
	}()

	var out strings.Builder
	runConsole(context.Background(), strings.NewReader(script), &out, intents)
	close(intents)
	<-loopDone
	return seen, out.String()
}

func TestConsolePostParsesHeadlineAndContent(t *testing.T) {
	seen, out := scriptConsole(t, "post ferry resumes | service restored at noon\n",
		func(intent server.Intent) server.IntentResult {
			return server.IntentResult{Article: &article.Article{ID: "1", Headline: intent.Headline}}
		})

	if len(seen) != 1 {
		t.Fatalf("console produced %d intents, want 1", len(seen))
	}
	if seen[0].Action != server.ActionCreate {
		t.Errorf("action = %s, want %s", seen[0].Action, server.ActionCreate)
	}
	if seen[0].Headline != "ferry resumes" || seen[0].Content != "service restored at noon" {
		t.Errorf("parsed %q | %q", seen[0].Headline, seen[0].Content)
	}
	if !strings.Contains(out, "published article 1") {
		t.Errorf("output missing confirmation: %q", out)
	}
}

func TestConsolePostWithoutHeadlineIsRejectedLocally(t *testing.T) {
	seen, out := scriptConsole(t, "post\n", func(server.Intent) server.IntentResult {
		return server.IntentResult{}
	})

	if len(seen) != 0 {
		t.Fatalf("empty post should not reach the loop, got %d intents", len(seen))
	}
	if !strings.Contains(out, "usage: post") {
		t.Errorf("output missing usage hint: %q", out)
	}
}

func TestConsoleDeleteReportsMisses(t *testing.T) {
	_, out := scriptConsole(t, "delete 404\n", func(server.Intent) server.IntentResult {
		return server.IntentResult{Removed: false}
	})

	if !strings.Contains(out, "no article 404") {
		t.Errorf("output missing miss report: %q", out)
	}
}

func TestConsoleListPrintsCollection(t *testing.T) {
	_, out := scriptConsole(t, "list\n", func(server.Intent) server.IntentResult {
		return server.IntentResult{Articles: []article.Article{
			{ID: "1", Headline: "first", Timestamp: "2026-03-01 08:00:00"},
			{ID: "2", Headline: "second", Timestamp: "2026-03-01 08:05:00"},
		}}
	})

	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("output missing articles: %q", out)
	}
}

func TestConsoleQuitStopsWithoutAnIntent(t *testing.T) {
	seen, _ := scriptConsole(t, "quit\npost never | sent\n", func(server.Intent) server.IntentResult {
		return server.IntentResult{}
	})

	if len(seen) != 0 {
		t.Errorf("commands after quit were processed: %d intents", len(seen))
	}
}

func TestConsoleUnknownCommandSuggestsHelp(t *testing.T) {
	seen, out := scriptConsole(t, "frobnicate\n", func(server.Intent) server.IntentResult {
		return server.IntentResult{}
	})

	if len(seen) != 0 {
		t.Fatalf("unknown command reached the loop")
	}
	if !strings.Contains(out, "unknown command") {
		t.Errorf("output missing error: %q", out)
	}
}
