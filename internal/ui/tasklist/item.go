package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		string(i.Task.Priority),
		string(i.Task.Status),
		"due " + relativeTime(i.Task.DueDate),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	t := ti.Task

	line := fmt.Sprintf("%s  %s  %s  due %s",
		theme.PriorityStyle(t.Priority).Render(padLabel(string(t.Priority), 6)),
		theme.StatusStyle(t.Status).Render(padLabel(string(t.Status), 11)),
		truncate(t.Title, titleWidth(m.Width())),
		relativeTime(t.DueDate),
	)

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

// titleWidth leaves room for the priority, status, and due columns.
func titleWidth(listWidth int) int {
	w := listWidth - 44
	if w < 16 {
		w = 16
	}
	return w
}

func padLabel(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s + strings.Repeat(" ", max-len(runes))
	}
	return string(runes[:max-1]) + "…"
}

// relativeTime renders a timestamp as a compact relative description.
func relativeTime(t time.Time) string {
	d := time.Until(t)
	past := d < 0
	if past {
		d = -d
	}

	var label string
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		label = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		label = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		label = fmt.Sprintf("%dd", int(d.Hours()/24))
	}

	if past {
		return label + " ago"
	}
	return "in " + label
}
