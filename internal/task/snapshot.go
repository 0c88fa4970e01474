package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultKey is the key the snapshot is stored under.
const DefaultKey = "todos-v2"

// snapshotSchema describes a stored collection. createdAt is optional so
// snapshots written before it existed still load.
const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "done"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string", "minLength": 1},
      "done": {"type": "boolean"},
      "createdAt": {"type": ["number", "null"]}
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("taskflow://snapshot.schema.json", snapshotSchema)

// record is the stored form of a Task.
type record struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Done      bool        `json:"done"`
	CreatedAt json.Number `json:"createdAt,omitempty"` // Unix milliseconds
}

// EncodeSnapshot serializes tasks with 2-space indentation and a trailing newline.
func EncodeSnapshot(tasks []Task) ([]byte, error) {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{ID: t.ID, Text: t.Text, Done: t.Done}
		if !t.CreatedAt.IsZero() {
			records[i].CreatedAt = json.Number(fmt.Sprintf("%d", t.CreatedAt.UnixMilli()))
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSnapshot parses a stored collection. Any error means the snapshot is
// malformed.
func DecodeSnapshot(data []byte) ([]Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	tasks := make([]Task, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if seen[r.ID] {
			return nil, fmt.Errorf("validate snapshot: duplicate id %q at [%d]", r.ID, i)
		}
		seen[r.ID] = true

		tasks[i] = Task{ID: r.ID, Text: r.Text, Done: r.Done}
		if r.CreatedAt != "" {
			ms, err := millis(r.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("parse snapshot: [%d].createdAt: %w", i, err)
			}
			tasks[i].CreatedAt = time.UnixMilli(ms)
		}
	}
	return tasks, nil
}

func millis(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
