package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addList(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders by due time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			list := ws.store.List()
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No reminders.")
				return nil
			}
			printReminders(cmd.OutOrStdout(), numbered(list), o.clock())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
