// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks invariants shared by every binary. Per-binary requirements
// live on the views.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Broadcast.Mode {
	case "", BroadcastMulticast, BroadcastHub, BroadcastOff:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidBroadcastConfigs, cfg.Broadcast.Mode)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Namespace == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.CacheDSN == "" || strings.Contains(cfg.CacheDSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if !cfg.Adapter.Memory && (cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0) {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Adapter.ReconnectInterval <= 0 || cfg.Adapter.PingInterval <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.FallbackTimeout <= 0 || cfg.Sync.GraceDelay < 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Broadcast.Mode == BroadcastMulticast && cfg.Broadcast.GroupAddress == "" {
		return ErrInvalidBroadcastConfigs
	}

	if cfg.Broadcast.Mode != BroadcastOff && cfg.Broadcast.Channel == "" {
		return ErrInvalidBroadcastConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Auth.TokenSignKey == "" || cfg.Auth.TokenIssuer == "" || cfg.Auth.TokenDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	return nil
}
