package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"remindme/internal/scheduler"
)

type watchOptions struct {
	Interval time.Duration
	Desktop  bool
}

func addWatch(topLevel *cobra.Command, o *rootOptions) {
	wo := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep firing due reminders until interrupted",
		Example: `
remindme watch --interval 30s --desktop
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, backend, err := o.openBackend()
			if err != nil {
				return err
			}
			defer backend.Close()

			interval := wo.Interval
			if !cmd.Flags().Changed("interval") {
				if interval, err = cfg.SchedulerInterval(); err != nil {
					return err
				}
			}
			checker, err := newChecker(cmd, cfg, backend, wo.Desktop)
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
			return scheduler.New(checker, interval, logger).Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&wo.Interval, "interval", time.Minute, "time between due checks (default from config)")
	cmd.Flags().BoolVar(&wo.Desktop, "desktop", false, "also raise desktop notifications")
	topLevel.AddCommand(cmd)
}
