package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addDelete(topLevel *cobra.Command, o *rootOptions) {
	t := &targetOptions{}

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Delete a reminder",
		Example: `
remindme delete --index 2
remindme delete --id 3f2a9c1b
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
			r, err := ws.store.Get(id)
			if err != nil {
				return err
			}
			if err := ws.store.Delete(id); err != nil {
				return err
			}
			if err := ws.save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted reminder %s: %s\n", r.ID, r.Text)
			return nil
		},
	}

	addTargetFlags(cmd, t)
	topLevel.AddCommand(cmd)
}
