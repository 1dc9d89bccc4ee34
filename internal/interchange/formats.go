package interchange

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"todo/internal/output"
	"todo/internal/task"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a format name, case-insensitively. "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown format %s", s)
}

// FormatFromPath guesses the format from a file extension, falling back to
// JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// ExportAs writes tasks to w in format.
func ExportAs(w io.Writer, tasks []task.Task, format Format) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	switch format {
	case FormatJSON:
		return Export(w, tasks)
	case FormatYAML:
		return exportYAML(w, tasks)
	case FormatCSV:
		return exportCSV(w, tasks)
	case FormatPDF:
		return exportPDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

// ImportAs reads a document in format. Only JSON and YAML can be imported.
func ImportAs(r io.Reader, format Format) ([]task.Task, error) {
	switch format {
	case FormatJSON:
		return Import(r)
	case FormatYAML:
		return importYAML(r)
	default:
		return nil, fmt.Errorf("cannot import %s documents", format)
	}
}

func exportYAML(w io.Writer, tasks []task.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document{Tasks: tasks}); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return enc.Close()
}

// importYAML converts the document to JSON so that it goes through the
// same schema validation as a JSON import.
func importYAML(r io.Reader) ([]task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if raw == nil {
		return nil, &ValidationError{Message: "empty document"}
	}
	converted, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return decodeJSON(converted)
}

var csvHeader = []string{"content", "priority", "due_date", "completed"}

func exportCSV(w io.Writer, tasks []task.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tasks {
		row := []string{t.Content, string(t.Priority), t.DueDate, strconv.FormatBool(t.Completed)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const pdfTitle = "To-Do List"

func exportPDF(w io.Writer, tasks []task.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(pdfTitle, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, pdfTitle)
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	if len(tasks) == 0 {
		pdf.Cell(40, 8, "No tasks.")
	}
	for i, t := range tasks {
		if t.Completed {
			pdf.SetTextColor(128, 128, 128)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.MultiCell(0, 7, tr(output.TaskLine(i+1, t)), "0", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
