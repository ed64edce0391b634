// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// newswire-client is the display side of the Newswire protocol. It
// joins the multicast group, converges its local replica on the
// publisher's article collection, and renders the replica to stdout
// whenever it changes, together with a connectivity indicator.
//
// The replica and the client's identity persist in a small cache file,
// so a restarted display shows the last known articles immediately and
// keeps its place in the publisher's client registry.
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
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/newswire-foundation/newswire/client"
	"github.com/newswire-foundation/newswire/lib/clock"
	"github.com/newswire-foundation/newswire/lib/config"
	"github.com/newswire-foundation/newswire/transport"
)

// renderInterval paces the display refresh. Rendering reads a
// published snapshot, so polling is cheap; the screen only repaints
// when the snapshot actually changed.
const renderInterval = time.Second

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
	var cachePath string
	var verbose bool

	flagSet := pflag.NewFlagSet("newswire-client", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&channel, "channel", "", "logical channel tag (overrides config)")
	flagSet.StringVar(&group, "group", "", "multicast group address:port (overrides config)")
	flagSet.StringVar(&interfaceName, "interface", "", "network interface for multicast (overrides config)")
	flagSet.StringVar(&cachePath, "cache", "", "replica cache file (overrides config)")
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
	if flagSet.Changed("cache") {
		cfg.Client.CachePath = cachePath
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

	// The cache is best effort: a display that cannot persist still
	// displays, it just starts cold next time.
	clientID := ""
	replica := client.NewReplica()
	var store client.ReplicaStore

	cache, err := client.OpenCache(cfg.Client.CachePath)
	if err != nil {
		log.Warn("cache unavailable, running without persistence", "path", cfg.Client.CachePath, "error", err)
	} else {
		defer cache.Close()
		store = cache

		clientID, err = cache.ClientID()
		if err != nil {
			log.Warn("could not load client id from cache", "error", err)
		}
		cached, found, err := cache.LoadReplica()
		if err != nil {
			log.Warn("cached replica unreadable, starting empty", "error", err)
		} else if found {
			replica.Load(cached)
			log.Info("replica loaded from cache", "articles", replica.Len())
		}
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := transport.DialUDP(cfg.Group, cfg.Interface, log)
	if err != nil {
		return fmt.Errorf("joining multicast group: %w", err)
	}
	defer conn.Close()

	c := client.New(client.Params{
		ClientID:          clientID,
		Replica:           replica,
		Store:             store,
		Conn:              conn,
		Clock:             clock.Real(),
		Log:               log,
		Channel:           cfg.Channel,
		HeartbeatInterval: cfg.Client.HeartbeatInterval.Std(),
		Grace:             cfg.Client.Grace.Std(),
	})

	log.Info("newswire client starting",
		"client", clientID,
		"channel", cfg.Channel,
		"group", cfg.Group,
		"local", conn.LocalAddr())

	clientDone := make(chan error, 1)
	go func() { clientDone <- c.Run(ctx) }()

	render := newRenderer(os.Stdout)
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-clientDone
			return nil
		case err := <-clientDone:
			return err
		case <-ticker.C:
			render.refresh(c.Snapshot(), c.Connected())
		}
	}
}
