package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"remindme/internal/reminder"
)

func addSearch(topLevel *cobra.Command, o *rootOptions) {
	var query string

	cmd := &cobra.Command{
		Use:   "search [words]",
		Short: "Find reminders whose text contains a phrase",
		Example: `
remindme search --query rent
remindme search call mom
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				query = strings.Join(args, " ")
			}
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("%w: search needs a query", reminder.ErrValidation)
			}

			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			matches := map[string]bool{}
			for _, r := range ws.store.Search(query) {
				matches[r.ID] = true
			}
			var rows []row
			for _, rw := range numbered(ws.store.List()) {
				if matches[rw.Reminder.ID] {
					rows = append(rows, rw)
				}
			}
			if len(rows) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No reminders match %q.\n", query)
				return nil
			}
			printReminders(cmd.OutOrStdout(), rows, o.clock())
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "text to look for, case-insensitive")
	topLevel.AddCommand(cmd)
}
