// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// newswire-server is the publisher side of the Newswire protocol. It
// owns the authoritative article collection, persists it next to the
// process, and distributes changes to every display on the multicast
// group. An interactive console on stdin drives publication:
//
//	post <headline> | <content>    publish a new article
//	delete <id>                    retract an article
//	sync                           broadcast a full snapshot
//	list                           show the collection
//	clients                        show every display ever seen
//
// Configuration comes from a YAML file (--config or NEWSWIRE_CONFIG),
// with individual flags overriding the file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/newswire-foundation/newswire/article"
	"github.com/newswire-foundation/newswire/lib/clock"
	"github.com/newswire-foundation/newswire/lib/config"
	"github.com/newswire-foundation/newswire/server"
	"github.com/newswire-foundation/newswire/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var channel string
	var group string
	var interfaceName string
	var snapshotPath string
	var verbose bool

	flagSet := pflag.NewFlagSet("newswire-server", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&channel, "channel", "", "logical channel tag (overrides config)")
	flagSet.StringVar(&group, "group", "", "multicast group address:port (overrides config)")
	flagSet.StringVar(&interfaceName, "interface", "", "network interface for multicast (overrides config)")
	flagSet.StringVar(&snapshotPath, "snapshot", "", "article snapshot file (overrides config)")
	flagSet.BoolVar(&verbose, "verbose", false, "enable debug logging")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("channel") {
		cfg.Channel = channel
	}
	if flagSet.Changed("group") {
		cfg.Group = group
	}
	if flagSet.Changed("interface") {
		cfg.Interface = interfaceName
	}
	if flagSet.Changed("snapshot") {
		cfg.Server.SnapshotPath = snapshotPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	systemClock := clock.Real()

	store := article.NewStore(article.NewFilePersister(cfg.Server.SnapshotPath), systemClock, log)
	store.LoadOrInit()

	conn, err := transport.DialUDP(cfg.Group, cfg.Interface, log)
	if err != nil {
		return fmt.Errorf("joining multicast group: %w", err)
	}
	defer conn.Close()

	srv := server.New(server.Params{
		Store:             store,
		Registry:          server.NewRegistry(systemClock),
		Conn:              conn,
		Clock:             systemClock,
		Log:               log,
		Channel:           cfg.Channel,
		HeartbeatInterval: cfg.Server.HeartbeatInterval.Std(),
	})

	log.Info("newswire server starting",
		"channel", cfg.Channel,
		"group", cfg.Group,
		"local", conn.LocalAddr(),
		"snapshot", cfg.Server.SnapshotPath,
		"articles", store.Len())

	serverDone := make(chan error, 1)
	go func() { serverDone <- srv.Run(ctx) }()

	// The console owns stdin; it returns on EOF or quit, which also
	// shuts the server down.
	consoleDone := make(chan struct{})
	go func() {
		runConsole(ctx, os.Stdin, os.Stdout, srv.Intents())
		close(consoleDone)
	}()

	select {
	case err := <-serverDone:
		return err
	case <-consoleDone:
		stop()
		return <-serverDone
	}
}
