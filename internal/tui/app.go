// Package tui provides the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/taskboard/internal/board"
	"github.com/fentz26/taskboard/internal/models"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#2563EB")
	successColor   = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	hoverBgColor   = lipgloss.Color("#1E3A5F")
	fgColor        = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Background(secondaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 4)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// App is the board renderer. It forwards gestures to the drag tracker and
// re-reads the collection after every change.
type App struct {
	ctx     context.Context
	store   *board.Store
	tracker *board.Tracker
	keys    keyMap
	help    help.Model

	tasks   models.Collection
	focus   int
	cursor  [3]int
	adding  bool
	message string
	width   int
	height  int
}

// New creates a board renderer over store and tracker.
func New(ctx context.Context, store *board.Store, tracker *board.Tracker) *App {
	a := &App{
		ctx:     ctx,
		store:   store,
		tracker: tracker,
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   96,
		height:  24,
	}
	a.refresh()
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.adding {
			if key.Matches(msg, a.keys.Add, a.keys.Cancel) {
				a.adding = false
			}
			return a, nil
		}

		switch {
		case key.Matches(msg, a.keys.Left):
			a.setFocus(a.focus - 1)
		case key.Matches(msg, a.keys.Right):
			a.setFocus(a.focus + 1)
		case key.Matches(msg, a.keys.Up):
			if a.cursor[a.focus] > 0 {
				a.cursor[a.focus]--
			}
		case key.Matches(msg, a.keys.Down):
			if a.cursor[a.focus] < len(a.tasks.Get(a.focusColumn()))-1 {
				a.cursor[a.focus]++
			}
		case key.Matches(msg, a.keys.Grab):
			a.grabOrDrop()
		case key.Matches(msg, a.keys.Cancel):
			if a.tracker.CancelDrag() {
				a.message = "Drag cancelled"
			}
		case key.Matches(msg, a.keys.Add):
			a.adding = true
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
		}
	}
	return a, nil
}

func (a *App) focusColumn() models.Column {
	return models.Columns[a.focus]
}

// setFocus moves the column focus. While dragging, the focused column is the
// drop target hint, except the source column which cannot receive the task.
func (a *App) setFocus(i int) {
	if i < 0 || i >= len(models.Columns) {
		return
	}
	a.focus = i
	s, ok := a.tracker.Active()
	if !ok {
		return
	}
	if a.focusColumn() == s.Source {
		a.tracker.DragLeave()
		return
	}
	a.tracker.DragOver(a.focusColumn())
}

func (a *App) grabOrDrop() {
	target := a.focusColumn()

	if s, ok := a.tracker.Active(); ok {
		moved := a.tracker.CompleteDrag(a.ctx, target)
		a.refresh()
		if moved {
			a.cursor[a.focus] = len(a.tasks.Get(target)) - 1
			a.message = fmt.Sprintf("✓ Moved %q to %s", s.Task.Title, target.Title())
		} else {
			a.message = fmt.Sprintf("%q stays in %s", s.Task.Title, s.Source.Title())
		}
		return
	}

	tasks := a.tasks.Get(target)
	if len(tasks) == 0 {
		a.message = fmt.Sprintf("No task to pick up in %s", target.Title())
		return
	}
	task := tasks[a.cursor[a.focus]]
	a.tracker.BeginDrag(task, target)
	a.message = fmt.Sprintf("Dragging %q, choose a column and drop", task.Title)
}

// refresh re-reads the collection and clamps cursors.
func (a *App) refresh() {
	a.tasks = a.store.Collection()
	for i, col := range models.Columns {
		n := len(a.tasks.Get(col))
		if a.cursor[i] >= n {
			a.cursor[i] = max(0, n-1)
		}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("Task Board") + "  " + buttonStyle.Render("a: Add Task")
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(a.width, 1)) + "\n")

	if a.adding {
		b.WriteString(a.renderAddOverlay())
	} else {
		b.WriteString(a.renderColumns())
	}

	// Message bar
	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if !strings.HasPrefix(a.message, "✓") {
			msgStyle = lipgloss.NewStyle().Foreground(warningColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}
	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	b.WriteString("\n")

	c := a.tasks
	status := fmt.Sprintf(" Pending: %d | Doing: %d | Done: %d", len(c.Pending), len(c.Doing), len(c.Done))
	if s, ok := a.tracker.Active(); ok {
		status += fmt.Sprintf(" | dragging %q from %s", s.Task.Title, s.Source.Title())
	}
	b.WriteString(statusBarStyle.Width(max(a.width, 1)).Render(status))

	return b.String()
}

func (a *App) renderColumns() string {
	width := (a.width - 2) / len(models.Columns)
	if width < 24 {
		width = 24
	}

	session, dragging := a.tracker.Active()
	hover, hovering := a.tracker.Hover()

	cols := make([]string, 0, len(models.Columns))
	for i, col := range models.Columns {
		view := columnView{
			column:   col,
			tasks:    a.tasks.Get(col),
			width:    width,
			focused:  i == a.focus,
			cursor:   a.cursor[i],
			hovered:  hovering && hover == col,
			dragging: "",
		}
		if dragging && session.Source == col {
			view.dragging = session.Task.ID
		}
		cols = append(cols, view.render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (a *App) renderAddOverlay() string {
	box := overlayStyle.Render(
		titleStyle.Render("Add Task") + "\n\n" +
			helpStyle.Render("The task form is not available yet.") + "\n\n" +
			helpStyle.Render("Press a or esc to close"),
	)
	return lipgloss.Place(max(a.width, lipgloss.Width(box)), max(a.height-6, lipgloss.Height(box)),
		lipgloss.Center, lipgloss.Center, box)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
