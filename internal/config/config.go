// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging environment variables, command-line flags, an optional JSON file
// and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: environment variable name of a scalar field.
type StructuredConfig struct {
	App       App       `envPrefix:"APP_"`
	Storage   Storage   `envPrefix:"STORAGE_"`
	Server    Server    `envPrefix:"SERVER_"`
	Adapter   Adapter   `envPrefix:"ADAPTER_"`
	Sync      Sync      `envPrefix:"SYNC_"`
	Broadcast Broadcast `envPrefix:"BROADCAST_"`
	Auth      Auth      `envPrefix:"AUTH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Namespace prefixes every local cache key ("<namespace>_<collection>").
	Namespace string `env:"NAMESPACE"`
	Version   string `env:"VERSION"`
}

// Storage groups the persistence backends.
type Storage struct {
	// Cache is the device-local SQLite cache used by the console and the ctl.
	Cache DB `envPrefix:"CACHE_"`
	// DB is the database of the remote store server.
	DB DB `envPrefix:"DB_"`
}

// DB holds a database connection string. A DSN starting with "postgres://"
// or "postgresql://" selects PostgreSQL; anything else is a SQLite path.
type DB struct {
	DSN string `env:"DSN"`
}

// Server holds the remote store HTTP server settings.
type Server struct {
	HTTPAddress    string        `env:"ADDRESS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the settings of the client side of the remote store.
type Adapter struct {
	// HTTPAddress is the remote store address, with or without scheme.
	HTTPAddress    string        `env:"ADDRESS"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// Token is the bearer token sent with every request.
	Token string `env:"TOKEN"`
	// ReconnectInterval is the pause between websocket reconnect attempts.
	ReconnectInterval time.Duration `env:"RECONNECT_INTERVAL"`
	// PingInterval is how often the stream session is probed.
	PingInterval time.Duration `env:"PING_INTERVAL"`
	// Memory selects the in-process remote instead of the network client.
	Memory bool `env:"MEMORY"`
}

// Sync holds the connection state machine timings.
type Sync struct {
	// FallbackTimeout is the bounded wait after which the operator may choose
	// to continue offline.
	FallbackTimeout time.Duration `env:"FALLBACK_TIMEOUT"`
	// GraceDelay is how long the state stays "syncing" after a successful push.
	GraceDelay time.Duration `env:"GRACE_DELAY"`
}

// Broadcast holds the cross-instance broadcast settings.
type Broadcast struct {
	// Mode is one of BroadcastMulticast, BroadcastHub or BroadcastOff.
	Mode         string `env:"MODE"`
	GroupAddress string `env:"GROUP_ADDRESS"`
	Channel      string `env:"CHANNEL"`
}

// Auth holds bearer token settings of the remote store.
type Auth struct {
	TokenSignKey  string        `env:"TOKEN_SIGN_KEY"`
	TokenIssuer   string        `env:"TOKEN_ISSUER"`
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

// Broadcast modes.
const (
	BroadcastMulticast = "multicast"
	BroadcastHub       = "hub"
	BroadcastOff       = "off"
)

// GetStructuredConfig builds the merged configuration. args are the
// command-line arguments without the program name; nil skips flag parsing.
func GetStructuredConfig(name string, args []string) (*StructuredConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags(name, args).
		withJSON().
		withDefaults().
		build()
	if err != nil {
		return nil, fmt.Errorf("error loading %s config: %w", name, err)
	}

	return cfg, nil
}
