package commands

import (
	"github.com/spf13/cobra"

	"remindme/internal/ui"
)

func addTUI(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Manage reminders interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(o)
		},
	}

	topLevel.AddCommand(cmd)
}

func runTUI(o *rootOptions) error {
	ws, err := o.open()
	if err != nil {
		return err
	}
	defer ws.Close()

	return ui.Run(ui.NewSession(ws.store, ws.backend, o.now), ws.cfg)
}
