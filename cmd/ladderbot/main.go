// Command ladderbot runs the member verification bot and the rating sweep
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ladderbot/internal/app"
	"ladderbot/internal/core/version"
	"ladderbot/internal/platform/config"
	"ladderbot/internal/platform/logger"
)

func main() {
	root := &cobra.Command{
		Use:           "ladderbot",
		Short:         "Discord member verification and DUPR leaderboard bot",
		Version:       version.Info().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Verify joining members, sweep ratings at startup and serve the ops API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					return a.Run(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Run one rating sweep, post the reports and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					rep, err := a.SweepOnce(ctx)
					if err != nil {
						return err
					}
					logger.Named("cmd").Info().
						Str("run_id", rep.RunID).
						Int("members", rep.Members).
						Int("snapshots", rep.Snapshots).
						Int("failures", len(rep.Failures)).
						Msg("sweep: finished")
					return nil
				})
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// withApp loads config, opens the app, runs fn and closes the app
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	logger.Init(logger.FromEnv())
	log := logger.Named("cmd")

	env := config.New()
	cfg, err := app.Load(env)
	if err != nil {
		return err
	}

	a, err := app.Open(ctx, env, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("app: close failed")
		}
	}()

	log.Info().Str("version", version.Info().String()).Msg("ladderbot starting")
	return fn(ctx, a)
}
