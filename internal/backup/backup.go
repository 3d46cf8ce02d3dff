// Package backup serializes the collection for export files and decodes
// user-supplied import files. Import parsing is liberal: the file may be
// a pretty JSON array (braid's own export), a JSONL snapshot,
// or an array from another tool with numeric ids and epoch-millisecond
// timestamps. Field-level validation stays in the merge resolver; this
// package only answers "could the file be read as task records at all".
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/braidtask/braid/internal/jsonl"
	"github.com/braidtask/braid/internal/task"
)

// Filename returns the dated default export name, braid-backup-YYYY-MM-DD.json.
func Filename(now time.Time) string {
	return fmt.Sprintf("braid-backup-%s.json", now.Format("2006-01-02"))
}

// Export writes the collection as a pretty-printed JSON array.
func Export(w io.Writer, tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ExportFile writes the collection to path, creating or truncating it.
func ExportFile(path string, tasks []*task.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return Export(f, tasks)
}

// Parse decodes an import payload into task records. Records missing id or
// text parse fine here; the merge resolver rejects them with a per-record
// index so the user learns which line is bad.
func Parse(data []byte) ([]*task.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("failed to parse backup: file is empty")
	}

	if trimmed[0] == '[' {
		var records []record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse backup: %w", err)
		}
		return fromRecords(records), nil
	}

	// Not an array: try the JSONL snapshot format so ~/.braid/tasks.jsonl
	// round-trips through export/import unchanged.
	tasks, err := jsonl.Decode(bytes.NewReader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	return tasks, nil
}

// ParseFile reads and decodes the import file at path.
func ParseFile(path string) ([]*task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// record is the liberal wire shape for one imported task.
type record struct {
	ID          flexString `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	CreatedAt   flexTime   `json:"createdAt"`
	AIGenerated bool       `json:"isAiGenerated"`
	ParentID    flexString `json:"parentId"`
	Expanded    *bool      `json:"isExpanded"`
}

func fromRecords(records []record) []*task.Task {
	tasks := make([]*task.Task, 0, len(records))
	for _, r := range records {
		priority, err := task.ParsePriority(r.Priority)
		if err != nil {
			priority = task.PriorityMedium
		}
		tasks = append(tasks, &task.Task{
			ID:          string(r.ID),
			Text:        r.Text,
			Completed:   r.Completed,
			Priority:    priority,
			CreatedAt:   time.Time(r.CreatedAt),
			AIGenerated: r.AIGenerated,
			ParentID:    string(r.ParentID),
			Expanded:    r.Expanded,
		})
	}
	return tasks
}

// flexString accepts JSON strings, numbers (stringified) and null. Exports
// from the original browser app carry Date.now() numbers as ids.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number")
	}
	*s = flexString(n.String())
	return nil
}

// flexTime accepts RFC3339 strings, epoch milliseconds and null.
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var v time.Time
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*t = flexTime(v)
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("createdAt must be a timestamp string or epoch milliseconds")
	}
	*t = flexTime(time.UnixMilli(int64(ms)).UTC())
	return nil
}
