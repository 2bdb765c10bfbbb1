package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-church-sync/internal/client"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output    string
	Clipboard bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full backup of the local cache",
		Long: `Export every collection held in the local cache as one JSON object keyed by
collection export name. The backup goes to stdout unless --out or --clipboard
is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "backup file path")
	cmd.Flags().BoolVar(&opts.Clipboard, "clipboard", false, "copy the backup to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("out", "clipboard")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := opts.logger()

	cfg, err := opts.clientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := client.NewEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err = engine.Start(ctx); err != nil {
		return err
	}

	data, err := engine.Services.Store.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	switch {
	case opts.Clipboard:
		if err = writeClipboard(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "backup copied to the clipboard")
	case opts.Output != "":
		if err = os.WriteFile(opts.Output, data, 0o600); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", opts.Output)
	default:
		if _, err = cmd.OutOrStdout().Write(append(data, '\n')); err != nil {
			return err
		}
	}

	log.Info().Int("bytes", len(data)).Msg("backup exported")
	return nil
}
