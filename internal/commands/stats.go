package commands

import (
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addStats(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the reminder store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			st := ws.store.Stats(o.clock())
			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold("Total"), st.Total)
			tbl.AddRow(bold("Active"), st.Active)
			tbl.AddRow(bold("Recurring"), st.Recurring)
			tbl.AddRow(bold("Fired"), st.Fired)
			tbl.AddRow(bold("Due today"), st.DueToday)
			tbl.AddRow(bold("Overdue"), st.Overdue)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
