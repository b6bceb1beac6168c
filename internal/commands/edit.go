package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"remindme/internal/reminder"
	"remindme/internal/store"
)

type editOptions struct {
	Text       string
	Time       string
	Date       string
	At         string
	Recurrence string
}

func addEdit(topLevel *cobra.Command, o *rootOptions) {
	t := &targetOptions{}
	eo := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change a reminder's text, time, date or recurrence",
		Long: `Change the given fields of a reminder. Changing only --time picks today or
tomorrow again, like add does. --at sets an exact "YYYY-MM-DD HH:MM".`,
		Example: `
remindme edit --index 1 --time 19:30
remindme edit --id 3f2a9c1b --text "Call dad" --recurrence weekly
remindme edit --id 3f2a9c1b --at "2025-06-01 08:00"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("at") && (flags.Changed("time") || flags.Changed("date")) {
				return fmt.Errorf("%w: --at cannot be combined with --time or --date", reminder.ErrValidation)
			}

			var ch store.Changes
			changed := false
			if flags.Changed("text") {
				ch.Text = &eo.Text
				changed = true
			}
			if flags.Changed("time") {
				ch.Time = &eo.Time
				changed = true
			}
			if flags.Changed("date") {
				ch.Date = &eo.Date
				changed = true
			}
			if flags.Changed("recurrence") {
				rec, err := reminder.ParseRecurrence(eo.Recurrence)
				if err != nil {
					return err
				}
				ch.Recurrence = &rec
				changed = true
			}
			if !changed && !flags.Changed("at") {
				return fmt.Errorf("%w: nothing to edit", reminder.ErrValidation)
			}

			ws, err := o.open()
			if err != nil {
				return err
			}
			defer ws.Close()

			id, err := t.resolve(cmd, ws.store)
			if err != nil {
				return err
			}
			r, err := ws.store.Edit(id, ch)
			if err != nil {
				return err
			}
			if flags.Changed("at") {
				due, err := reminder.ParseDateTime(eo.At, o.clock().Location())
				if err != nil {
					return err
				}
				if r, err = ws.store.SetDue(id, due); err != nil {
					return err
				}
			}
			if err := ws.save(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated reminder %s: %s due %s\n", r.ID, r.Text, reminder.FormatDue(r.DueAt))
			return nil
		},
	}

	addTargetFlags(cmd, t)
	cmd.Flags().StringVar(&eo.Text, "text", "", "new text")
	cmd.Flags().StringVar(&eo.Time, "time", "", "new time of day, HH:MM")
	cmd.Flags().StringVar(&eo.Date, "date", "", "new date, YYYY-MM-DD; empty lets today/tomorrow apply")
	cmd.Flags().StringVar(&eo.At, "at", "", `exact due time, "YYYY-MM-DD HH:MM"`)
	cmd.Flags().StringVar(&eo.Recurrence, "recurrence", "", "none, daily, weekly, monthly or yearly")
	_ = cmd.RegisterFlagCompletionFunc("recurrence", recurrenceCompletions)

	topLevel.AddCommand(cmd)
}
