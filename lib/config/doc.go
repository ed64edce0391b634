// Copyright 2026 The Newswire Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Newswire binaries.
//
// Configuration is loaded from a single YAML file specified by:
//   - the NEWSWIRE_CONFIG environment variable, or
//   - the --config flag passed to the binary.
//
// There are no search paths and no automatic discovery; with neither
// source set, the built-in defaults apply unchanged. This keeps a
// deployment's effective configuration deterministic and auditable.
//
// The channel tag, multicast group, and timer intervals live here
// because every participant of one deployment must agree on them; the
// defaults match the protocol's documented timings (server beacon
// every 30s, client heartbeat every 35s, 10s disconnect grace).
package config
