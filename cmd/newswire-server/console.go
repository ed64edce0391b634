// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/newswire-foundation/newswire/server"
)

const consolePrompt = "newswire> "

// intentTimeout bounds how long the console waits for the event loop
// to answer. The loop never blocks for long; hitting this means it is
// gone.
const intentTimeout = 5 * time.Second

// runConsole reads operator commands line by line until EOF, "quit",
// or context cancellation, translating each into an intent for the
// server loop and printing the outcome.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, intents chan<- server.Intent) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, consolePrompt)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			handleCommand(ctx, out, intents, line)
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		fmt.Fprint(out, consolePrompt)
	}
}

func handleCommand(ctx context.Context, out io.Writer, intents chan<- server.Intent, line string) {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var intent server.Intent
	switch command {
	case "post":
		headline, content, _ := strings.Cut(rest, "|")
		headline = strings.TrimSpace(headline)
		if headline == "" {
			fmt.Fprintln(out, "usage: post <headline> | <content>")
			return
		}
		intent = server.Intent{Action: server.ActionCreate, Headline: headline, Content: strings.TrimSpace(content)}

	case "delete":
		if rest == "" {
			fmt.Fprintln(out, "usage: delete <id>")
			return
		}
		intent = server.Intent{Action: server.ActionDelete, ArticleID: rest}

	case "sync":
		intent = server.Intent{Action: server.ActionSyncAll}

	case "list":
		intent = server.Intent{Action: server.ActionList}

	case "clients":
		intent = server.Intent{Action: server.ActionClients}

	case "help":
		fmt.Fprintln(out, "commands: post <headline> | <content>, delete <id>, sync, list, clients, quit")
		return

	default:
		fmt.Fprintf(out, "unknown command %q (try help)\n", command)
		return
	}

	// Buffered so the loop's reply never blocks on a console that
	// already moved on.
	result := make(chan server.IntentResult, 1)
	intent.Result = result

	select {
	case intents <- intent:
	case <-ctx.Done():
		return
	case <-time.After(intentTimeout):
		fmt.Fprintln(out, "server loop is not accepting commands")
		return
	}

	select {
	case r := <-result:
		printResult(out, intent, r)
	case <-ctx.Done():
	case <-time.After(intentTimeout):
		fmt.Fprintln(out, "server loop did not answer")
	}
}

func printResult(out io.Writer, intent server.Intent, r server.IntentResult) {
	if r.Err != nil {
		fmt.Fprintf(out, "warning: %v\n", r.Err)
	}

	switch intent.Action {
	case server.ActionCreate:
		if r.Article != nil {
			fmt.Fprintf(out, "published article %s: %s\n", r.Article.ID, r.Article.Headline)
		}

	case server.ActionDelete:
		if r.Removed {
			fmt.Fprintf(out, "deleted article %s\n", intent.ArticleID)
		} else {
			fmt.Fprintf(out, "no article %s\n", intent.ArticleID)
		}

	case server.ActionSyncAll:
		fmt.Fprintln(out, "full sync broadcast")

	case server.ActionList:
		if len(r.Articles) == 0 {
			fmt.Fprintln(out, "no articles")
			return
		}
		for _, a := range r.Articles {
			fmt.Fprintf(out, "  %s  %s  %s\n", a.ID, a.Timestamp, a.Headline)
		}

	case server.ActionClients:
		if len(r.Clients) == 0 {
			fmt.Fprintln(out, "no clients seen yet")
			return
		}
		for _, id := range r.Clients {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
}
