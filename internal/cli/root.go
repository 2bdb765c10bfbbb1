// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the church-sync-ctl command line: backup export and
// import against the local cache, and device token issuing for the remote
// store.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	CacheDSN   string
	Memory     bool
	Broadcast  string

	// Logger is created on first use when nil.
	Logger *logger.Logger
}

// NewRootCommand creates the root command of church-sync-ctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "church-sync-ctl",
		Short: "Maintenance tool for the church sync console",
		Long: `church-sync-ctl exports and imports full backups of the church collections
and issues device tokens for the remote store.

Settings are read the same way the console reads them: environment, the JSON
file given with --config, then the flags below.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "JSON config file path")
	cmd.PersistentFlags().StringVar(&opts.CacheDSN, "cache", "", "local cache DSN")
	cmd.PersistentFlags().BoolVar(&opts.Memory, "memory", false, "use the in-process remote store")
	cmd.PersistentFlags().StringVar(&opts.Broadcast, "broadcast", "", "broadcast mode: multicast, hub or off")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) logger() *logger.Logger {
	if o.Logger == nil {
		o.Logger = logger.NewClientLogger("church-sync-ctl", "")
	}
	return o.Logger
}

// configArgs turns the global flags into the flag set understood by the
// config package.
func (o *RootOptions) configArgs() []string {
	var args []string
	if o.ConfigPath != "" {
		args = append(args, "-c", o.ConfigPath)
	}
	if o.CacheDSN != "" {
		args = append(args, "-cache", o.CacheDSN)
	}
	if o.Memory {
		args = append(args, "-memory")
	}
	if o.Broadcast != "" {
		args = append(args, "-broadcast", o.Broadcast)
	}
	return args
}

func (o *RootOptions) clientConfig() (*config.ClientConfig, error) {
	return config.GetClientConfig(o.configArgs())
}
