package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addReset(topLevel *cobra.Command, o *rootOptions) {
	t := &targetOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the fired flag so a reminder notifies again",
		Example: `
remindme reset --id 3f2a9c1b
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			id, err := t.resolve(cmd, ws.store)
			if err != nil {
				return err
			}
			if err := ws.store.ResetNotified(id); err != nil {
				return err
			}
			if err := ws.save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset reminder %s\n", id)
			return nil
		},
	}

	addTargetFlags(cmd, t)
	topLevel.AddCommand(cmd)
}
