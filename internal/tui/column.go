package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/taskboard/internal/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(fgColor).
				MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)

	cardDescStyle = lipgloss.NewStyle().Foreground(mutedColor)

	priorityHigh   = lipgloss.NewStyle().Foreground(errorColor)
	priorityMedium = lipgloss.NewStyle().Foreground(warningColor)
	priorityLow    = lipgloss.NewStyle().Foreground(successColor)
)

// columnView renders one board column.
type columnView struct {
	column   models.Column
	tasks    []models.Task
	width    int
	focused  bool
	cursor   int
	hovered  bool
	dragging string // id of the task being dragged out of this column
}

func (v columnView) render() string {
	style := columnStyle.Width(v.width - 2)
	if v.focused {
		style = style.BorderForeground(primaryColor)
	}
	if v.hovered {
		style = style.BorderForeground(secondaryColor).Background(hoverBgColor)
	}

	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(v.column.Title()))
	b.WriteString("\n")

	if len(v.tasks) == 0 {
		b.WriteString(cardDescStyle.Render("No tasks"))
		return style.Render(b.String())
	}

	cards := make([]string, 0, len(v.tasks))
	for i, t := range v.tasks {
		cards = append(cards, v.renderCard(t, v.focused && i == v.cursor))
	}
	b.WriteString(strings.Join(cards, "\n"))
	return style.Render(b.String())
}

func (v columnView) renderCard(t models.Task, selected bool) string {
	inner := v.width - 8
	if inner < 10 {
		inner = 10
	}

	title := t.Title
	if t.ID == v.dragging {
		title = "⇄ " + title
	}
	lines := []string{cardTitleStyle.Render(truncate(title, inner))}
	if t.Description != "" {
		lines = append(lines, cardDescStyle.Render(truncate(t.Description, inner)))
	}
	if meta := cardMeta(t); meta != "" {
		lines = append(lines, meta)
	}

	style := cardStyle.Width(v.width - 6)
	switch {
	case t.ID == v.dragging:
		style = style.BorderForeground(warningColor)
	case selected:
		style = style.BorderForeground(primaryColor)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// cardMeta renders the due date and priority line.
func cardMeta(t models.Task) string {
	var parts []string
	if due, ok := t.Due(); ok {
		parts = append(parts, cardDescStyle.Render(due.Format("Jan 2, 2006")))
	} else if t.DueDate != "" {
		parts = append(parts, cardDescStyle.Render(t.DueDate))
	}
	if t.Priority != "" {
		parts = append(parts, priorityStyle(t.Priority).Render(string(t.Priority)))
	}
	return strings.Join(parts, "  ")
}

func priorityStyle(p models.Priority) lipgloss.Style {
	switch p.Level() {
	case models.PriorityHigh:
		return priorityHigh
	case models.PriorityMedium:
		return priorityMedium
	default:
		return priorityLow
	}
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
