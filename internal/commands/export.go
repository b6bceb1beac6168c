package commands

import (
	"github.com/spf13/cobra"

	"remindme/internal/storage"
)

func addExport(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print all reminders as JSON",
		Example: `
remindme export > backup.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			data, err := storage.Encode(ws.store.List())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
