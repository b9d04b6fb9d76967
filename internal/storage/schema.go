package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskclaw/internal/utils"
)

//go:embed task.schema.json
var taskSchemaJSON string

const taskSchemaURL = "https://github.com/nibzard/taskclaw/schema/task.schema.json"

var (
	taskSchemaOnce sync.Once
	taskSchema     *jsonschema.Schema
	taskSchemaErr  error
)

// TaskSchema returns the JSON Schema that per-task records must satisfy.
func TaskSchema() string {
	return taskSchemaJSON
}

func compiledTaskSchema() (*jsonschema.Schema, error) {
	taskSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
			taskSchemaErr = fmt.Errorf("load task schema: %w", err)
			return
		}
		taskSchema, taskSchemaErr = compiler.Compile(taskSchemaURL)
		if taskSchemaErr != nil {
			taskSchemaErr = fmt.Errorf("compile task schema: %w", taskSchemaErr)
		}
	})
	return taskSchema, taskSchemaErr
}

// SchemaError lists the schema violations found in one record.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema violation: " + strings.Join(e.Problems, "; ")
}

// ValidateRecord checks one JSON task record against the task schema.
func ValidateRecord(data []byte) error {
	schema, err := compiledTaskSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		se := &SchemaError{}
		collectSchemaErrors(se, ve)
		return se
	}
	return nil
}

func collectSchemaErrors(se *SchemaError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		path := utils.JSONPointerToPath(err.InstanceLocation)
		if path == "" {
			path = "record"
		}
		se.Problems = append(se.Problems, fmt.Sprintf("%s: %s", path, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(se, cause)
	}
}
