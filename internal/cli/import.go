package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-church-sync/internal/client"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	// Wait bounds how long the remote store may take to connect, and then to
	// accept the pushes. Zero uses the configured fallback timeout.
	Wait time.Duration
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <backup.json|->",
		Short: "Replace collections from a backup",
		Long: `Import a backup produced by export or by the console. Every collection found
in the backup replaces the cached one; collections absent from the backup are
left untouched. The backup is validated as a whole first, so a malformed file
changes nothing.

When the remote store is reachable the imported collections are pushed to it.
Otherwise they stay in the local cache until the console syncs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Wait, "wait", 0, "how long to wait for the remote store")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := opts.logger()

	data, err := readBackup(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := opts.clientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = cfg.Sync.FallbackTimeout
	}

	engine, err := client.NewEngine(ctx, cfg, log)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	workersErr := make(chan error, 1)
	go func() { workersErr <- engine.Workers.Run(runCtx) }()

	err = importBackup(runCtx, engine, data, wait, cmd.ErrOrStderr())

	cancel()
	return errors.Join(err, <-workersErr, engine.Close())
}

func importBackup(ctx context.Context, engine *client.Engine, data []byte, wait time.Duration, stderr io.Writer) error {
	if err := engine.Start(ctx); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	online := engine.WaitOnline(waitCtx) == nil

	if err := engine.Services.Store.Import(ctx, data); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if !online {
		fmt.Fprintln(stderr, "remote store unreachable, backup imported into the local cache only")
		return nil
	}

	flushCtx, cancelFlush := context.WithTimeout(ctx, wait)
	defer cancelFlush()
	if err := engine.Services.Store.Flush(flushCtx); err != nil {
		fmt.Fprintln(stderr, "backup imported, some collections are still waiting to be pushed")
		return nil
	}

	fmt.Fprintln(stderr, "backup imported and pushed to the remote store")
	return nil
}

func readBackup(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read backup from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return data, nil
}
