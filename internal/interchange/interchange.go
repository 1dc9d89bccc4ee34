// Package interchange exports the task list as JSON, YAML, CSV or PDF and
// imports JSON or YAML documents validated against an embedded JSON Schema.
package interchange

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/task"
)

const schemaURL = "todo://schemas/tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Document is the JSON shape of an export.
type Document struct {
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
}

// ValidationError is a schema violation at a JSON path.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Export writes tasks as an indented JSON document.
func Export(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Tasks: tasks}); err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return nil
}

// Import reads a JSON document from r, validates it and returns its tasks.
// Schema violations are joined *ValidationError values.
func Import(r io.Reader) ([]task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) ([]task.Task, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(raw); err != nil {
		return nil, schemaErrors(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	for i := range doc.Tasks {
		doc.Tasks[i] = doc.Tasks[i].Normalize()
		if err := doc.Tasks[i].Validate(); err != nil {
			return nil, &ValidationError{Path: fmt.Sprintf("tasks.%d", i), Message: err.Error()}
		}
	}
	return doc.Tasks, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/tasks/0/content" into "tasks.0.content".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
