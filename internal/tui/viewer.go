// Package tui is an interactive browser over the saved task repository,
// used by the `tasks` subcommand.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nash-labs/nash-mcp/internal/task"
)

type model struct {
	list     list.Model
	quitting bool
	selected *task.Task
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				m.selected = item.task
			}
			return m, nil
		case "esc":
			m.selected = nil
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}

	var cmd tea.Cmd
	if m.selected == nil {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.selected != nil {
		return taskDetailView(m.selected)
	}
	return m.list.View()
}

func taskDetailView(t *task.Task) string {
	var s string
	s += fmt.Sprintf("Task: %s\n\n", t.Name)
	s += fmt.Sprintf("Description:\n%s\n\n", t.Description)
	s += fmt.Sprintf("Script type: %s\n", t.ScriptType)
	s += fmt.Sprintf("Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
	s += fmt.Sprintf("Updated: %s\n\n", t.UpdatedAt.Format("2006-01-02 15:04:05"))
	s += fmt.Sprintf("Script:\n%s\n", t.Script)
	s += "\n(Press 'esc' to go back, 'q' to quit)"
	return s
}

// listItem wraps a task record to satisfy the list.Item interface.
type listItem struct {
	task *task.Task
}

func (li listItem) Title() string { return li.task.Name }
func (li listItem) Description() string {
	if li.task.Description != "" {
		return fmt.Sprintf("[%s] %s", li.task.ScriptType, li.task.Description)
	}
	return string(li.task.ScriptType)
}
func (li listItem) FilterValue() string { return li.task.Name }

// NewModel builds the browser over the given task records.
func NewModel(tasks []*task.Task) tea.Model {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = listItem{task: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved Tasks"

	return model{list: l}
}
