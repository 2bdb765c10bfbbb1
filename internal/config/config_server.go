package config

import (
	"fmt"
	"time"
)

// ServerAuth holds the bearer token settings of the remote store.
type ServerAuth struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// ServerConfig is the view of [StructuredConfig] used by the remote store
// server and by token issuing.
type ServerConfig struct {
	// Version is reported by GET /api/version.
	Version        string
	HTTPAddress    string
	RequestTimeout time.Duration
	// DSN selects PostgreSQL ("postgres://...") or a SQLite file.
	DSN  string
	Auth ServerAuth
}

// GetServerConfig loads the merged configuration and returns the validated
// server view.
func GetServerConfig(args []string) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig("server", args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewServerConfig maps the server-relevant fields of cfg.
func NewServerConfig(cfg *StructuredConfig) *ServerConfig {
	return &ServerConfig{
		Version:        cfg.App.Version,
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		DSN:            cfg.Storage.DB.DSN,
		Auth: ServerAuth{
			TokenSignKey:  cfg.Auth.TokenSignKey,
			TokenIssuer:   cfg.Auth.TokenIssuer,
			TokenDuration: cfg.Auth.TokenDuration,
		},
	}
}
