package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/caremate-dev/caremate/internal/tasks"
	"github.com/caremate-dev/caremate/internal/tui"
	"github.com/caremate-dev/caremate/internal/tui/commands"
)

// TasksModel is the view model for the task list.
type TasksModel struct {
	store   *tasks.Store
	list    []tasks.Task
	cursor  int
	loading bool
	errText string
	width   int
	height  int
}

// NewTasksModel creates the task list view.
func NewTasksModel(store *tasks.Store, width, height int) TasksModel {
	return TasksModel{
		store:   store,
		list:    store.Tasks(),
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init triggers the initial fetch.
func (m TasksModel) Init() tea.Cmd {
	return commands.FetchTasksCmd(m.store)
}

// Update handles messages for the task view.
func (m TasksModel) Update(msg tea.Msg) (TasksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyUp, "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case tui.KeyDown, "j":
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, commands.FetchTasksCmd(m.store)
		case "c":
			if m.cursor < len(m.list) && !m.list[m.cursor].IsCompleted {
				return m, commands.CompleteTaskCmd(m.store, m.list[m.cursor].ID)
			}
		case "d":
			if m.cursor < len(m.list) {
				return m, commands.DeleteTaskCmd(m.store, m.list[m.cursor].ID)
			}
		case tui.KeyEsc:
			return m, func() tea.Msg { return tui.NavigateMsg{Name: "Dashboard"} }
		}

	case tui.TasksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		m.errText = ""
		m.list = msg.Tasks
		if m.cursor >= len(m.list) && m.cursor > 0 {
			m.cursor = len(m.list) - 1
		}
		return m, nil

	case tui.TaskSavedMsg:
		if msg.Err != nil {
			m.errText = m.store.LastError()
			return m, nil
		}
		// Re-read the mutated collection from the store.
		m.list = m.store.Tasks()
		if m.cursor >= len(m.list) && m.cursor > 0 {
			m.cursor = len(m.list) - 1
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the task view.
func (m TasksModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Care Tasks"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading tasks..."))
		b.WriteString("\n")
	case len(m.list) == 0:
		b.WriteString(tui.DimStyle.Render("No tasks yet."))
		b.WriteString("\n")
	default:
		for i, t := range m.list {
			icon := tui.IconPending
			if t.IsCompleted {
				icon = tui.IconDone
			}
			line := fmt.Sprintf("%s %s", icon, t.Title)
			if t.DueTime != "" {
				line += tui.DimStyle.Render("  due " + t.DueTime)
			}
			if i == m.cursor {
				b.WriteString(tui.SelectedStyle.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(tui.ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("c: Complete   d: Delete   r: Refresh   Esc: Back"))

	return tui.BoxStyle.Render(b.String())
}
