package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"remindme/internal/reminder"
)

type addOptions struct {
	Text       string
	Time       string
	Date       string
	Recurrence string
}

func addAdd(topLevel *cobra.Command, o *rootOptions) {
	ao := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		Long: `Add a reminder at a time of day. Without --date the reminder lands today,
or tomorrow when that time has already passed.`,
		Example: `
remindme add --text "Call mom" --time 18:00
remindme add --text "Pay rent" --time 09:00 --date 2025-01-31 --recurrence monthly
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := reminder.ResolveDue(ao.Time, ao.Date, o.clock())
			if err != nil {
				return err
			}
			rec, err := reminder.ParseRecurrence(ao.Recurrence)
			if err != nil {
				return err
			}

			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			id, err := ws.store.Add(ao.Text, due, rec)
			if err != nil {
				return err
			}
			if err := ws.save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %s due %s\n", id, reminder.FormatDue(due))
			return nil
		},
	}

	cmd.Flags().StringVar(&ao.Text, "text", "", "what to be reminded of")
	cmd.Flags().StringVar(&ao.Time, "time", "", "time of day, HH:MM")
	cmd.Flags().StringVar(&ao.Date, "date", "", "date, YYYY-MM-DD (default today or tomorrow)")
	cmd.Flags().StringVar(&ao.Recurrence, "recurrence", "none", "none, daily, weekly, monthly or yearly")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.RegisterFlagCompletionFunc("recurrence", recurrenceCompletions)

	topLevel.AddCommand(cmd)
}

func recurrenceCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var tags []string
	for _, r := range reminder.Recurrences() {
		tags = append(tags, r.String())
	}
	return tags, cobra.ShellCompDirectiveNoFileComp
}
