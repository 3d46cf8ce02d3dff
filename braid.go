// Package braid provides a minimal public API for embedding the braid task
// engine in other Go programs.
//
// Most automation should shell out to the braid CLI with --json. This
// package exports only the essential types and functions for programs that
// want to drive the task store in process.
package braid

import (
	"github.com/braidtask/braid/internal/jsonl"
	"github.com/braidtask/braid/internal/store"
	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/tree"
)

// Core types for working with tasks
type (
	Task     = task.Task
	Priority = task.Priority
	Filter   = task.Filter
	Store    = store.Store
	Tree     = tree.Tree
)

// Priority constants
const (
	PriorityHigh   = task.PriorityHigh
	PriorityMedium = task.PriorityMedium
	PriorityLow    = task.PriorityLow
)

// Filter constants
const (
	FilterAll       = task.FilterAll
	FilterActive    = task.FilterActive
	FilterCompleted = task.FilterCompleted
)

// Open loads the snapshot at path and returns a store that writes every
// mutation back to the same file. A missing file starts an empty store;
// the file is created on the first mutation.
func Open(path string) (*Store, error) {
	tasks, err := jsonl.Load(path)
	if err != nil {
		return nil, err
	}
	return store.New(tasks, store.WithSaveHook(func(snapshot []*task.Task) error {
		return jsonl.Save(path, snapshot)
	})), nil
}

// BuildTree arranges tasks into the two-level display tree.
func BuildTree(tasks []*Task, filter Filter) *Tree {
	return tree.Build(tasks, filter)
}
