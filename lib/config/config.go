// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "NEWSWIRE_CONFIG"

// minimumGrace is the floor for the client disconnect grace window.
// Below this, ordinary multicast jitter flaps the connectivity
// indicator.
const minimumGrace = 10 * time.Second

// Duration wraps time.Duration with YAML support for strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the shared configuration for Newswire binaries. The
// channel, group, and interface apply to both roles; Server and
// Client hold role-specific settings.
type Config struct {
	// Channel is the logical channel tag. Messages tagged otherwise
	// are ignored as unrelated traffic.
	Channel string `yaml:"channel"`

	// Group is the IPv4 multicast group and port, "address:port".
	Group string `yaml:"group"`

	// Interface optionally pins multicast traffic to one network
	// interface by name. Empty uses the system default.
	Interface string `yaml:"interface,omitempty"`

	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

// ServerConfig holds publisher-side settings.
type ServerConfig struct {
	// HeartbeatInterval is the period of the broadcast beacon.
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`

	// SnapshotPath is where the article store persists.
	SnapshotPath string `yaml:"snapshot_path"`
}

// ClientConfig holds replica-side settings.
type ClientConfig struct {
	// HeartbeatInterval is the period of the client's liveness ping
	// and of the disconnect check.
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`

	// Grace is the additional quiet time tolerated past the
	// heartbeat interval before the server is considered
	// unreachable. Must be at least 10s.
	Grace Duration `yaml:"grace"`

	// CachePath is where the replica cache persists.
	CachePath string `yaml:"cache_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Channel: "newswire",
		Group:   "239.77.18.2:7355",
		Server: ServerConfig{
			HeartbeatInterval: Duration(30 * time.Second),
			SnapshotPath:      "newswire-articles.nws",
		},
		Client: ClientConfig{
			HeartbeatInterval: Duration(35 * time.Second),
			Grace:             Duration(10 * time.Second),
			CachePath:         "newswire-replica.db",
		},
	}
}

// Load resolves the configuration. An explicit path wins; otherwise
// the NEWSWIRE_CONFIG environment variable is consulted; with neither
// set, the defaults are returned. A named file that is missing or
// invalid is an error — a deployment that asks for a file gets that
// file or nothing.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	// Start from defaults so a partial file overrides only what it
	// names.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the protocol depends on.
func (c Config) Validate() error {
	if c.Channel == "" {
		return fmt.Errorf("channel must not be empty")
	}
	if c.Group == "" {
		return fmt.Errorf("group must not be empty")
	}
	if c.Server.HeartbeatInterval.Std() <= 0 {
		return fmt.Errorf("server heartbeat_interval must be positive")
	}
	if c.Client.HeartbeatInterval.Std() <= 0 {
		return fmt.Errorf("client heartbeat_interval must be positive")
	}
	if c.Client.Grace.Std() < minimumGrace {
		return fmt.Errorf("client grace %s is below the %s minimum", c.Client.Grace.Std(), minimumGrace)
	}
	return nil
}
