package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"remindme/internal/config"
	"remindme/internal/reminder"
	"remindme/internal/store"
	"remindme/internal/storage"
)

type view int

const (
	viewList view = iota
	viewAdd
	viewEdit
	viewHelp
)

func (v view) String() string {
	switch v {
	case viewAdd:
		return "add"
	case viewEdit:
		return "edit"
	case viewHelp:
		return "help"
	default:
		return "list"
	}
}

const (
	fieldText = iota
	fieldTime
	fieldDate
	fieldRecurrence
	fieldCount
)

type formState struct {
	id     string
	values [fieldCount]string
	orig   [fieldCount]string
	index  int
}

func formFields() []string {
	return []string{"text", "time (HH:MM)", "date (YYYY-MM-DD, blank = next)", "recurrence (none/daily/weekly/monthly/yearly)"}
}

func (f *formState) currentLabel() string {
	return formFields()[f.index]
}

// changes lists only the fields edited since the form was opened.
func (f *formState) changes() (store.Changes, bool, error) {
	var ch store.Changes
	changed := false
	if v := f.values[fieldText]; v != f.orig[fieldText] {
		ch.Text = &v
		changed = true
	}
	// Either half of the due time changing submits both. A blank date
	// falls back to today or tomorrow.
	clock := strings.TrimSpace(f.values[fieldTime])
	date := strings.TrimSpace(f.values[fieldDate])
	if clock != f.orig[fieldTime] || date != f.orig[fieldDate] {
		ch.Time = &clock
		ch.Date = &date
		changed = true
	}
	if v := f.values[fieldRecurrence]; v != f.orig[fieldRecurrence] {
		r, err := reminder.ParseRecurrence(v)
		if err != nil {
			return store.Changes{}, false, err
		}
		ch.Recurrence = &r
		changed = true
	}
	return ch, changed, nil
}

type storeChangedMsg struct{}

type Model struct {
	session *Session
	keys    config.Keymap
	view    view
	form    *formState
	input   textinput.Model
	status  string
	isErr   bool
	changes <-chan struct{}
	width   int
}

func New(session *Session, keys config.Keymap) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		session: session,
		keys:    keys,
		view:    viewList,
		input:   ti,
		status:  fmt.Sprintf("Press '%s' to add, '%s' for help, '%s' to quit.", keys.Add, keys.Help, keys.Quit),
	}
}

// WithChanges makes the model reload whenever ch signals.
func (m Model) WithChanges(ch <-chan struct{}) Model {
	m.changes = ch
	return m
}

// Run drives the session until the user quits, then flushes unsaved work.
func Run(session *Session, cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := New(session, cfg.Keys)
	if ch, err := storage.Watch(ctx, session.backend.Path()); err == nil {
		m = m.WithChanges(ch)
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return session.Flush()
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.view {
		case viewAdd, viewEdit:
			return m.updateForm(msg)
		case viewHelp:
			return m.updateHelp(msg.String())
		default:
			return m.updateList(msg.String())
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	case storeChangedMsg:
		if err := m.session.Reload(); err != nil {
			m.setError("reload skipped: %v", err)
		}
		return m, m.waitForChange()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.session.Flush(); err != nil {
		m.setError("save failed: %v", err)
	}
	return m, tea.Quit
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.keys.Quit:
		return m.quit()
	case m.keys.Up, "up":
		m.session.Move(-1)
	case m.keys.Down, "down":
		m.session.Move(1)
	case m.keys.Add:
		return m.openForm(viewAdd, &formState{values: [fieldCount]string{fieldRecurrence: reminder.None.String()}})
	case m.keys.Edit:
		r, ok := m.session.Selected()
		if !ok {
			m.setStatus("No reminders to edit")
			return m, nil
		}
		vals := [fieldCount]string{
			fieldText:       r.Text,
			fieldTime:       reminder.FormatClock(r.DueAt),
			fieldDate:       reminder.FormatDate(r.DueAt),
			fieldRecurrence: r.Recurrence.String(),
		}
		return m.openForm(viewEdit, &formState{id: r.ID, values: vals, orig: vals})
	case m.keys.Delete:
		r, err := m.session.DeleteSelected()
		switch {
		case errors.Is(err, reminder.ErrNotFound):
			m.setStatus("Nothing to delete")
		case err != nil:
			m.setError("Deleted %q but save failed: %v", r.Text, err)
		default:
			m.setStatus("Deleted %q", r.Text)
		}
	case m.keys.Help:
		m.view = viewHelp
	}
	return m, nil
}

func (m Model) updateHelp(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.keys.Quit:
		return m.quit()
	case m.keys.Cancel, m.keys.Help, "esc":
		m.view = viewList
	}
	return m, nil
}

func (m Model) openForm(v view, f *formState) (tea.Model, tea.Cmd) {
	m.view = v
	m.form = f
	m.input.SetValue(f.values[f.index])
	m.input.Placeholder = f.currentLabel()
	cmd := m.input.Focus()
	m.setStatus("%s", m.formPrompt())
	return m, cmd
}

func (m Model) closeForm(status string) Model {
	m.form = nil
	m.view = viewList
	m.input.SetValue("")
	m.input.Blur()
	m.setStatus("%s", status)
	return m
}

func (m Model) moveField(delta int) Model {
	m.form.values[m.form.index] = m.input.Value()
	m.form.index = wrapIndex(m.form.index+delta, fieldCount)
	m.input.SetValue(m.form.values[m.form.index])
	m.input.Placeholder = m.form.currentLabel()
	m.setStatus("%s", m.formPrompt())
	return m
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.keys.Cancel, "esc":
		return m.closeForm("Cancelled"), nil
	case m.keys.Next, "down":
		return m.moveField(1), nil
	case m.keys.Prev, "up":
		return m.moveField(-1), nil
	case m.keys.Confirm, "enter":
		m.form.values[m.form.index] = m.input.Value()
		if m.form.index < fieldCount-1 {
			return m.moveField(1), nil
		}
		return m.submit()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// submit stays in the form on bad input. A failed save still leaves the
// form because the store already holds the change.
func (m Model) submit() (tea.Model, tea.Cmd) {
	f := m.form
	var err error
	done := ""
	switch m.view {
	case viewAdd:
		_, err = m.session.Add(f.values[fieldText], f.values[fieldTime], f.values[fieldDate], f.values[fieldRecurrence])
		done = "Added reminder"
	case viewEdit:
		ch, changed, cerr := f.changes()
		if cerr != nil {
			err = cerr
			break
		}
		if !changed {
			return m.closeForm("No changes"), nil
		}
		err = m.session.Edit(f.id, ch)
		done = "Saved reminder"
	}

	if errors.Is(err, reminder.ErrPersistence) {
		m = m.closeForm("")
		m.setError("save failed: %v", err)
		return m, nil
	}
	if err != nil {
		m.setError("%v", err)
		return m, nil
	}
	return m.closeForm(done), nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("%s %s (field %d of %d). %s to advance, %s to cancel.",
		strings.ToUpper(m.view.String()[:1])+m.view.String()[1:], m.form.currentLabel(),
		m.form.index+1, fieldCount, m.keys.Confirm, m.keys.Cancel)
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.isErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.isErr = true
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
