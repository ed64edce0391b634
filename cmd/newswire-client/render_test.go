// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"strings"
	"testing"

	"github.com/newswire-foundation/newswire/article"
)

func TestRendererRepaintsOnlyOnChange(t *testing.T) {
	var out strings.Builder
	r := newRenderer(&out)
	articles := []article.Article{{ID: "1", Headline: "only"}}

	r.refresh(articles, true)
	first := out.Len()
	if first == 0 {
		t.Fatal("first refresh painted nothing")
	}

	r.refresh(articles, true)
	if out.Len() != first {
		t.Error("unchanged state repainted")
	}

	r.refresh(articles, false)
	if out.Len() == first {
		t.Error("connectivity change did not repaint")
	}
}

func TestFormatShowsConnectivity(t *testing.T) {
	live := format(nil, true)
	if !strings.Contains(live, "LIVE") {
		t.Errorf("connected board missing LIVE: %q", live)
	}

	offline := format(nil, false)
	if !strings.Contains(offline, "OFFLINE") || !strings.Contains(offline, "last known") {
		t.Errorf("offline board missing stale warning: %q", offline)
	}
}

func TestFormatListsArticlesInGivenOrder(t *testing.T) {
	board := format([]article.Article{
		{ID: "2", Headline: "newest", Timestamp: "2026-03-01 08:05:00", Content: "body"},
		{ID: "1", Headline: "older", Timestamp: "2026-03-01 08:00:00"},
	}, true)

	newest := strings.Index(board, "newest")
	older := strings.Index(board, "older")
	if newest == -1 || older == -1 || newest > older {
		t.Errorf("articles out of order or missing:\n%s", board)
	}
	if !strings.Contains(board, "body") {
		t.Errorf("content line missing:\n%s", board)
	}
}
