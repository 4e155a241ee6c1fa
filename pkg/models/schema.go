package models

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// TaskSchema returns the JSON Schema describing a Task record.
func TaskSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Task](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring task schema: %w", err)
	}
	// Task.MarshalJSON never emits null for subtasks.
	if sub, ok := s.Properties["subtasks"]; ok {
		sub.Type = "array"
		sub.Types = nil
	}
	s.Title = "Task"
	s.Description = "Tarefitas task record, schema version " + SchemaVersion
	return s, nil
}

// SubtaskSchema returns the JSON Schema describing a Subtask record.
func SubtaskSchema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Subtask](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring subtask schema: %w", err)
	}
	s.Title = "Subtask"
	s.Description = "Tarefitas subtask record, schema version " + SchemaVersion
	return s, nil
}
