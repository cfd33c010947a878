// Package export writes the task list to files users download or archive.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"todo/internal/task"
)

// Format is an export file format.
type Format string

const (
	JSON Format = "json"
	PDF  Format = "pdf"
)

// Source is what an export reads from; *task.Manager satisfies it.
type Source interface {
	ExportJSON() ([]byte, error)
	Tasks() []task.Task
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", JSON:
		return JSON, nil
	case PDF:
		return PDF, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", s)
	}
}

// FileName returns the download file name for format: todos.json or todos.pdf.
func (f Format) FileName() string {
	return "todos." + string(f)
}

// ContentType returns the MIME type for format.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "application/json"
}

// Write encodes src in format to w.
func Write(w io.Writer, src Source, format Format, now time.Time) error {
	switch format {
	case JSON:
		data, err := src.ExportJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case PDF:
		return WritePDF(w, src.Tasks(), now)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// WritePDF renders tasks as a one-column printable report.
func WritePDF(w io.Writer, tasks []task.Task, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.SetTitle("Tasks", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, fmt.Sprintf("%d open of %d, exported %s",
		task.OpenCount(tasks), len(tasks), now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		created := time.UnixMilli(t.Created).Format("2006-01-02")
		line := fmt.Sprintf("%s %s  (%s)", mark, tr(t.Text), created)
		pdf.MultiCell(0, 6, line, "0", "L", false)
	}

	return pdf.Output(w)
}
