package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-church-sync/internal/config"
	"github.com/MKhiriev/go-church-sync/internal/service"
)

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	SignKey  string
	Issuer   string
	Duration time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token <device>",
		Short: "Issue a bearer token for a console device",
		Long: `Issue a signed bearer token for the named device. The signing key and
issuer must match the ones the remote store server runs with.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SignKey, "sign-key", "", "token signing key")
	cmd.Flags().StringVar(&opts.Issuer, "issuer", "", "token issuer")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "token lifetime (e.g. 8760h)")

	return cmd
}

func runToken(opts *TokenOptions, device string, cmd *cobra.Command) error {
	cfg, err := config.GetServerConfig(opts.serverArgs())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	token, err := service.NewAuthService(cfg.Auth, opts.logger()).CreateToken(cmd.Context(), device)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token.String())
	fmt.Fprintf(cmd.ErrOrStderr(), "token for %q expires %s\n", device, token.ExpiresAt.Format(time.DateOnly))
	return nil
}

func (o *TokenOptions) serverArgs() []string {
	var args []string
	if o.ConfigPath != "" {
		args = append(args, "-c", o.ConfigPath)
	}
	if o.SignKey != "" {
		args = append(args, "-token-sign-key", o.SignKey)
	}
	if o.Issuer != "" {
		args = append(args, "-token-issuer", o.Issuer)
	}
	if o.Duration > 0 {
		args = append(args, "-token-duration", o.Duration.String())
	}
	return args
}
