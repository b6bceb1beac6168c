package commands

import (
	"log"

	"github.com/spf13/cobra"

	"remindme/internal/config"
	"remindme/internal/duecheck"
	"remindme/internal/notify"
	"remindme/internal/storage"
)

type notifyOptions struct {
	Desktop bool
}

func addNotify(topLevel *cobra.Command, o *rootOptions) {
	no := &notifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Fire every reminder that is due",
		Long: `Fire every due reminder once. One-shot reminders are removed afterwards,
recurring ones move to their next occurrence. Run it from cron or a systemd
timer, or use "remindme watch".`,
		Example: `
# crontab
* * * * * remindme notify --desktop
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, backend, err := o.openBackend()
			if err != nil {
				return err
			}
			defer backend.Close()

			checker, err := newChecker(cmd, cfg, backend, no.Desktop)
			if err != nil {
				return err
			}
			_, err = checker.Check(o.clock())
			return err
		},
	}

	cmd.Flags().BoolVar(&no.Desktop, "desktop", false, "also raise desktop notifications")
	topLevel.AddCommand(cmd)
}

func newChecker(cmd *cobra.Command, cfg config.Config, backend storage.Backend, desktop bool) (*duecheck.Checker, error) {
	var notifier notify.Notifier = notify.NewTerminal(cmd.OutOrStdout())
	if desktop || cfg.Notify.Desktop {
		timeout, err := cfg.NotifyTimeout()
		if err != nil {
			return nil, err
		}
		notifier = notify.Multi{notifier, notify.NewDesktop(cfg.Notify.AppName, timeout)}
	}
	return &duecheck.Checker{
		Backend:  backend,
		Notifier: notifier,
		Options: duecheck.Options{
			KeepExpired: cfg.DueCheck.KeepExpired,
			Logger:      log.New(cmd.ErrOrStderr(), "", log.LstdFlags),
		},
	}, nil
}
