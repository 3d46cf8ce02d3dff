// Package jsonl persists the task collection as ordered JSONL, one task per
// line. Line order is collection order: Load returns tasks in file order and
// Save writes them in slice order, so the snapshot round-trips the exact
// ordering the store maintains.
package jsonl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/braidtask/braid/internal/lockfile"
	"github.com/braidtask/braid/internal/task"
)

// maxLineBytes bounds a single snapshot line. Task texts are short; a line
// past this is a corrupt file, not a big task.
const maxLineBytes = 1 << 20

const lockSuffix = ".lock"

// LockPath returns the sidecar lock file guarding the snapshot at path. The
// sidecar survives the temp-file swap, unlike a lock on the snapshot itself.
func LockPath(path string) string {
	return path + lockSuffix
}

func acquireLock(path string, exclusive bool) (*os.File, error) {
	f, err := os.OpenFile(LockPath(path), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	lock := lockfile.FlockShared
	if exclusive {
		lock = lockfile.FlockExclusive
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", LockPath(path), err)
	}
	return f, nil
}

func releaseLock(f *os.File) {
	_ = lockfile.FlockUnlock(f)
	_ = f.Close()
}

// Load reads the snapshot at path. A missing file (or missing parent
// directory) is an empty collection, not an error.
func Load(path string) ([]*task.Task, error) {
	lock, err := acquireLock(path, false)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	defer releaseLock(lock)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	tasks, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return tasks, nil
}

// Save writes the full collection to path via a temp file in the same
// directory and an atomic rename, holding an exclusive lock for the
// duration so concurrent braid processes serialize their writes.
func Save(path string, tasks []*task.Task) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	lock, err := acquireLock(path, true)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer releaseLock(lock)

	base := filepath.Base(path)
	tempFile, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()    // Best effort: may already be closed before rename
		_ = os.Remove(tempPath) // Best effort: cleanup temp file; may already be renamed
	}()

	if err := Encode(tempFile, tasks); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	// Close before rename (required on Windows; double-close in defer is harmless)
	_ = tempFile.Close()

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}

// Decode reads one task per line from r, skipping blank lines. Tasks come
// back in line order with defaults normalized.
func Decode(r io.Reader) ([]*task.Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var tasks []*task.Task
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var t task.Task
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		t.SetDefaults()
		tasks = append(tasks, &t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Encode writes one task per line to w in slice order.
func Encode(w io.Writer, tasks []*task.Task) error {
	bw := bufio.NewWriter(w)
	for _, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
		}
		bw.Write(data)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
