package models

import "encoding/json"

// SchemaVersion identifies the revision of the Task and Subtask interchange
// records. It changes only when the wire shape of either record changes.
const SchemaVersion = "1"

// Task is the task record exchanged with the presentation layer. The backend
// does not create, store, or validate tasks; it only declares their shape.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Date        *string   `json:"date,omitempty" yaml:"date,omitempty"`
	State       string    `json:"state" yaml:"state"`
	Subtasks    []Subtask `json:"subtasks" yaml:"subtasks"`
	EnergyTag   *string   `json:"energy_tag,omitempty" yaml:"energy_tag,omitempty"`
	Order       int32     `json:"order" yaml:"order"`
	CreatedAt   string    `json:"created_at" yaml:"created_at"`
	UpdatedAt   string    `json:"updated_at" yaml:"updated_at"`
}

// MarshalJSON encodes a nil Subtasks list as an empty array, since the
// presentation layer rejects null for it.
func (t Task) MarshalJSON() ([]byte, error) {
	type task Task
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	return json.Marshal(task(t))
}

// Subtask is a single checklist item belonging to a Task.
type Subtask struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool    `json:"completed" yaml:"completed"`
	Order       int32   `json:"order" yaml:"order"`
}
