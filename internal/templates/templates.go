// Package templates provides reusable task templates for braid.
// A template creates a parent task plus its subtasks in one step, so
// recurring multi-step work (weekly review, trip planning) is one command.
package templates

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/braidtask/braid/internal/store"
	"github.com/braidtask/braid/internal/task"
)

// Template defines a parent task and the subtasks it expands into.
type Template struct {
	Name        string   `toml:"name"`        // Display name (e.g. "Weekly review")
	Text        string   `toml:"text"`        // Parent task text
	Priority    string   `toml:"priority"`    // low, medium or high (default medium)
	Description string   `toml:"description"` // Shown by `braid template list`
	Subtasks    []string `toml:"subtasks"`    // Child task texts, in order
}

// BuiltinTemplates contains the default template definitions.
// These are compiled into the binary.
var BuiltinTemplates = map[string]Template{
	"weekly-review": {
		Name:        "Weekly review",
		Text:        "Weekly review",
		Priority:    "high",
		Description: "Recurring end-of-week planning pass",
		Subtasks: []string{
			"Go through completed tasks",
			"Clear the inbox",
			"Plan the coming week",
		},
	},
	"trip": {
		Name:        "Trip planning",
		Text:        "Plan a trip",
		Priority:    "medium",
		Description: "Everything a trip needs before departure",
		Subtasks: []string{
			"Pick dates",
			"Book flights",
			"Reserve lodging",
			"Build packing list",
		},
	},
	"project-kickoff": {
		Name:        "Project kickoff",
		Text:        "Kick off new project",
		Priority:    "high",
		Description: "First steps for starting a project",
		Subtasks: []string{
			"Write one-page brief",
			"List open questions",
			"Schedule kickoff call",
		},
	},
}

// userTemplates holds templates loaded from the user file.
type userTemplates struct {
	Templates map[string]Template `toml:"templates"`
}

// LoadUserTemplates loads templates from path (~/.braid/templates.toml)
// if it exists.
func LoadUserTemplates(path string) (map[string]Template, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the braid config dir
	if os.IsNotExist(err) {
		return nil, nil // No user templates, that's fine
	}
	if err != nil {
		return nil, fmt.Errorf("read templates.toml: %w", err)
	}

	var user userTemplates
	if err := toml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse templates.toml: %w", err)
	}

	for name, tmpl := range user.Templates {
		if tmpl.Name == "" {
			tmpl.Name = name
		}
		if tmpl.Text == "" {
			tmpl.Text = tmpl.Name
		}
		user.Templates[name] = tmpl
	}

	return user.Templates, nil
}

// All returns merged built-in and user templates. User templates override
// built-ins with the same name.
func All(path string) (map[string]Template, error) {
	result := make(map[string]Template, len(BuiltinTemplates))
	for name, tmpl := range BuiltinTemplates {
		result[name] = tmpl
	}

	user, err := LoadUserTemplates(path)
	if err != nil {
		return nil, err
	}
	for name, tmpl := range user {
		result[name] = tmpl
	}

	return result, nil
}

// Get looks up a template by name, checking user templates first.
func Get(name, path string) (*Template, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	all, err := All(path)
	if err != nil {
		return nil, err
	}

	tmpl, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	return &tmpl, nil
}

// Names returns the sorted names of all available templates.
func Names(path string) ([]string, error) {
	all, err := All(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// IsBuiltin reports whether the template ships with the binary.
func IsBuiltin(name string) bool {
	_, ok := BuiltinTemplates[name]
	return ok
}

// Apply creates the template's parent task and its subtasks in st.
// Returns the created tasks, parent first, children in template order.
func Apply(st *store.Store, tmpl Template) ([]*task.Task, error) {
	priority := task.PriorityMedium
	if tmpl.Priority != "" {
		p, err := task.ParsePriority(tmpl.Priority)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", tmpl.Name, err)
		}
		priority = p
	}

	parent, err := st.Add(tmpl.Text, priority, false)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", tmpl.Name, err)
	}

	created := []*task.Task{parent}
	for _, text := range tmpl.Subtasks {
		if strings.TrimSpace(text) == "" {
			continue
		}
		child, err := st.AddSubtask(parent.ID, text)
		if err != nil {
			return created, fmt.Errorf("template %q subtask %q: %w", tmpl.Name, text, err)
		}
		created = append(created, child)
	}

	return created, nil
}
