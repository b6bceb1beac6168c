package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"remindme/internal/config"
	"remindme/internal/reminder"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	firedStyle    = lipgloss.NewStyle().Faint(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RemindMe"))
	b.WriteString("\n\n")

	switch m.view {
	case viewHelp:
		b.WriteString(boxStyle.Render(renderHelp(m.keys)))
	case viewAdd, viewEdit:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(m.renderForm()))
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n\n")
	if m.isErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.renderHints()))
	return b.String()
}

func (m Model) renderList() string {
	list := m.session.Reminders()
	if len(list) == 0 {
		return fmt.Sprintf("No reminders yet. Press '%s' to add one.\n", m.keys.Add)
	}
	now := m.session.now()
	cursor := clampCursor(m.session.Cursor(), len(list))

	var b strings.Builder
	for i, r := range list {
		marker := " "
		if i == cursor && m.view == viewList {
			marker = ">"
		}
		line := fmt.Sprintf("%s %2d. %s  %-8s %s", marker, i+1, reminder.FormatDue(r.DueAt), recurrenceLabel(r), r.Text)
		switch {
		case i == cursor && m.view == viewList:
			line = selectedStyle.Render(line)
		case r.Notified:
			line = firedStyle.Render(line + " (fired)")
		case !r.DueAt.After(now):
			line = overdueStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func recurrenceLabel(r reminder.Reminder) string {
	if !r.Recurring() {
		return ""
	}
	return r.Recurrence.String()
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	title := "New reminder"
	if m.view == viewEdit {
		title = "Edit reminder " + m.form.id
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for i, name := range formFields() {
		prefix := " "
		val := m.form.values[i]
		if i == m.form.index {
			prefix = ">"
			val = m.input.View()
		} else if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-12s : %s\n", prefix, strings.SplitN(name, " ", 2)[0], val))
	}
	return b.String()
}

func (m Model) renderHints() string {
	k := m.keys
	switch m.view {
	case viewAdd, viewEdit:
		return fmt.Sprintf("%s/%s move field • %s next/save • %s cancel", k.Next, k.Prev, k.Confirm, k.Cancel)
	case viewHelp:
		return fmt.Sprintf("%s back • %s quit", k.Cancel, k.Quit)
	default:
		return fmt.Sprintf("%s/%s move • %s add • %s edit • %s delete • %s help • %s quit",
			k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Help, k.Quit)
	}
}

func renderHelp(k config.Keymap) string {
	rows := [][2]string{
		{k.Quit, "Quit"},
		{k.Add, "Add new reminder"},
		{k.Edit, "Edit selected reminder"},
		{k.Delete, "Delete selected reminder"},
		{k.Help, "Show this help"},
		{k.Up + "/" + k.Down + ", ↑/↓", "Navigate through reminders"},
		{k.Next + "/" + k.Prev, "Move between form fields"},
		{k.Confirm, "Next field, save on the last one"},
		{k.Cancel, "Cancel form, leave help"},
	}
	var b strings.Builder
	b.WriteString("HELP\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-16s %s\n", r[0], r[1]))
	}
	b.WriteString("\nWithout a date, a time that already passed today means tomorrow.")
	return b.String()
}
