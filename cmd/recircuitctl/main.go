package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recircuit-api/app"
	"recircuit-api/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "recircuitctl",
		Short:         "Operator tasks for the ReCircuit API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newBackfillStepsCmd())
	return root
}

func setup(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.InitLogging(cfg.Environment)
	return app.New(ctx, cfg)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func newBackfillStepsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "backfill-steps",
		Short: "Generate build guides for innovations that have none yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("limit must be greater than 0")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Innovations.BackfillSteps(ctx, limit)
			if summary != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Innovations scanned: %d, completed: %d, failed: %d\n",
					summary.Scanned, summary.Completed, summary.Failed)
			}
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				log.Warn().Int("failed", summary.Failed).Msg("backfill finished with failures")
				a.Close()
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of innovations to process")
	return cmd
}
