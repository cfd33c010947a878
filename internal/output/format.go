// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
)

const (
	// ListSeparator is the separator line above the open counter.
	ListSeparator = "------------"

	// EmptyMessage is printed when the list has no tasks.
	EmptyMessage = "no tasks found"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces, checkbox, text)
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(t.Completed), normalizeText(t.Text))
}

// FormatTaskWithID is FormatTask followed by the task id, for --ids listings.
func FormatTaskWithID(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s  (%s)\n", num, checkbox(t.Completed), normalizeText(t.Text), t.ID)
}

// FormatCount formats the open task counter.
func FormatCount(w io.Writer, open int) {
	fmt.Fprintln(w, ListSeparator)
	if open == 1 {
		fmt.Fprintln(w, "1 open task")
		return
	}
	fmt.Fprintf(w, "%d open tasks\n", open)
}

// FormatList writes every task followed by the counter, or the empty message.
func FormatList(w io.Writer, tasks []task.Task, withIDs bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyMessage)
		return
	}
	for i, t := range tasks {
		if withIDs {
			FormatTaskWithID(w, i+1, t)
		} else {
			FormatTask(w, i+1, t)
		}
	}
	FormatCount(w, task.OpenCount(tasks))
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeText normalizes task text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
