// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/newswire-foundation/newswire/article"
)

// renderer writes the article board to out, repainting only when the
// replica or the connectivity flag changed since the last refresh.
type renderer struct {
	out  io.Writer
	last string
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

func (r *renderer) refresh(articles []article.Article, connected bool) {
	board := format(articles, connected)
	if board == r.last {
		return
	}
	r.last = board
	fmt.Fprint(r.out, board)
}

func format(articles []article.Article, connected bool) string {
	var b strings.Builder

	status := "OFFLINE — showing last known articles"
	if connected {
		status = "LIVE"
	}
	fmt.Fprintf(&b, "\n=== Newswire [%s] — %d article(s) ===\n", status, len(articles))

	if len(articles) == 0 {
		b.WriteString("(no articles)\n")
		return b.String()
	}
	for _, a := range articles {
		fmt.Fprintf(&b, "[%s] %s  %s\n", a.ID, a.Timestamp, a.Headline)
		if a.Content != "" {
			fmt.Fprintf(&b, "      %s\n", a.Content)
		}
	}
	return b.String()
}
