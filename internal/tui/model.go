// Package tui is the interactive terminal view of the task list.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/export"
	"todo/internal/output"
	"todo/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeImport
)

// Messages the Bridge forwards from the task manager.
type (
	renderMsg struct{ tasks []task.Task }
	itemMsg   struct{ task task.Task }
	countMsg  struct{ open int }
)

// Model is the bubbletea model for the task list.
type Model struct {
	ctx       context.Context
	tasks     *task.Manager
	exportDir string
	now       func() time.Time

	keys  keyMap
	help  help.Model
	input textinput.Model

	mode   mode
	editID string // task being edited in modeEdit
	cursor int
	items  []task.Task
	open   int

	status    string
	statusErr bool
	width     int
}

// Option configures a Model.
type Option func(*Model)

// WithExportDir sets the directory the export key writes todos.json into.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// WithClock replaces time.Now for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New returns a Model showing the manager's current list.
func New(ctx context.Context, tasks *task.Manager, opts ...Option) Model {
	ti := textinput.New()
	ti.CharLimit = 0
	ti.Prompt = "> "

	m := Model{
		ctx:       ctx,
		tasks:     tasks,
		exportDir: ".",
		now:       time.Now,
		keys:      defaultKeys(),
		help:      help.New(),
		input:     ti,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case renderMsg:
		m.setItems(msg.tasks)
		return m, nil

	case itemMsg:
		for i := range m.items {
			if m.items[i].ID == msg.task.ID {
				m.items[i] = msg.task
			}
		}
		return m, nil

	case countMsg:
		m.open = msg.open
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.add):
		return m.startInput(modeAdd, "", "What needs to be done?")

	case key.Matches(msg, m.keys.edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editID = t.ID
		return m.startInput(modeEdit, t.Text, "")

	case key.Matches(msg, m.keys.toggle):
		if t, ok := m.selected(); ok {
			_, err := m.tasks.Toggle(m.ctx, t.ID)
			m.afterChange(err, "")
		}

	case key.Matches(msg, m.keys.del):
		if t, ok := m.selected(); ok {
			err := m.tasks.Remove(m.ctx, t.ID)
			m.afterChange(err, "deleted")
		}

	case key.Matches(msg, m.keys.clear):
		n, err := m.tasks.ClearCompleted(m.ctx)
		m.afterChange(err, fmt.Sprintf("cleared %d completed", n))

	case key.Matches(msg, m.keys.export):
		m.exportJSON()

	case key.Matches(msg, m.keys.importJS):
		return m.startInput(modeImport, "", "path to todos.json")
	}
	return m, nil
}

func (m Model) startInput(md mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.status = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.stopInput()
		return m, nil

	case key.Matches(msg, m.keys.submit):
		value := m.input.Value()
		md, id := m.mode, m.editID
		m.stopInput()
		m.commit(md, id, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopInput() {
	m.mode = modeList
	m.editID = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) commit(md mode, id, value string) {
	switch md {
	case modeAdd:
		_, err := m.tasks.Add(m.ctx, value)
		if errors.Is(err, task.ErrEmptyText) {
			return
		}
		m.afterChange(err, "")
		if err == nil {
			m.cursor = 0
		}

	case modeEdit:
		_, err := m.tasks.Update(m.ctx, id, value)
		m.afterChange(err, "")

	case modeImport:
		path := strings.TrimSpace(value)
		if path == "" {
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			m.setError(err)
			return
		}
		n, err := m.tasks.ImportJSON(m.ctx, data)
		m.afterChange(err, fmt.Sprintf("imported %d", n))
	}
}

func (m *Model) exportJSON() {
	path := filepath.Join(m.exportDir, export.JSON.FileName())
	f, err := os.Create(path)
	if err != nil {
		m.setError(err)
		return
	}
	err = export.Write(f, m.tasks, export.JSON, m.now())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("exported to " + path)
}

// afterChange re-reads the list after a mutation and reports its outcome.
func (m *Model) afterChange(err error, success string) {
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(success)
}

func (m *Model) refresh() {
	m.setItems(m.tasks.Tasks())
}

func (m *Model) setItems(items []task.Task) {
	m.items = items
	m.open = task.OpenCount(items)
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return task.Task{}, false
	}
	return m.items[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if len(m.items) == 0 {
		b.WriteString(emptyStyle.Render(output.EmptyMessage))
		b.WriteString("\n")
	}
	for i, t := range m.items {
		b.WriteString(m.row(i, t))
		b.WriteString("\n")
	}

	counter := fmt.Sprintf("%d open tasks", m.open)
	if m.open == 1 {
		counter = "1 open task"
	}
	b.WriteString(countStyle.Render(counter))
	b.WriteString("\n")

	if m.mode == modeImport {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeList {
		b.WriteString(m.help.View(m.keys))
	} else {
		b.WriteString(m.help.View(inputKeys{m.keys}))
	}
	return b.String()
}

func (m Model) row(i int, t task.Task) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	if m.mode == modeEdit && t.ID == m.editID {
		return cursor + m.input.View()
	}

	box := "[ ]"
	text := t.Text
	if t.Completed {
		box = "[x]"
		text = doneStyle.Render(text)
	}
	return cursor + box + " " + text
}
