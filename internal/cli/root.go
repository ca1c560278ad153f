package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grachmannico95/payment-engine/internal/config"
	"github.com/grachmannico95/payment-engine/internal/ledger"
	"github.com/grachmannico95/payment-engine/internal/processor"
	"github.com/grachmannico95/payment-engine/internal/queue"
	"github.com/grachmannico95/payment-engine/internal/report"
	"github.com/grachmannico95/payment-engine/internal/source"
	"github.com/grachmannico95/payment-engine/pkg/logger"
)

// NewRootCommand creates the payment-engine command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment-engine <file>",
		Short: "Process a stream of transaction events into account balances",
		Long: `Process a stream of transaction events into account balances.

Reads deposit, withdrawal, dispute, resolve and chargeback rows from the
given CSV file and writes the final per-client account snapshot to stdout.
Rejected rows are logged and skipped; only a source that cannot be opened
at all fails the run.

Example:
  payment-engine transactions.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	return cmd
}

func run(cmd *cobra.Command, path string) error {
	cfg := config.Load()

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	ctx := logger.WithRunID(cmd.Context(), uuid.New().String())

	// The only fatal error: a source that cannot be opened at all.
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	log.Info(ctx, "Starting run",
		"source", path,
		"queue_capacity", cfg.Queue.Capacity,
	)

	store := ledger.NewStore()
	q := queue.New(cfg.Queue.Capacity)
	src := source.NewCSVSource(q, log, cfg.Source.EnqueueMaxRetries, cfg.Source.EnqueueBaseDelay)
	proc := processor.New(store, log, cfg.Queue.IdleSleep)

	// Producer on its own goroutine, consumer on this one. The source closes
	// the queue when the file is exhausted, which terminates Run.
	go func() {
		if err := src.Run(ctx, file); err != nil {
			log.Error(ctx, "Source stopped early",
				"error", err,
			)
		}
	}()

	stats := proc.Run(ctx, q)

	if err := report.Write(cmd.OutOrStdout(), store.Accounts()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info(ctx, "Run completed",
		"processed", stats.Processed,
		"rejected", stats.Rejected,
	)

	return nil
}

// Execute runs the root command against ctx and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	return 0
}
