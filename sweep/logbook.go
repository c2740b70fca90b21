// Package sweep drives the exponential iteration-budget sweep across
// all benchmark targets.
package sweep

import (
	"fmt"
	"os"
)

// Logbook is the shared append-only sweep log. The file is truncated
// once when the Logbook is created; every Append opens, writes,
// flushes, and closes it so a line is never lost to an aborted sweep.
type Logbook struct {
	path string
}

// NewLogbook creates (or truncates) the logbook file at path.
func NewLogbook(path string) (*Logbook, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create logbook %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close logbook %s: %w", path, err)
	}

	return &Logbook{path: path}, nil
}

// OpenLogbook attaches to an existing logbook file without
// truncating it, creating it when absent. Stand-alone runner
// invocations use this so they never wipe a sweep in progress.
func OpenLogbook(path string) (*Logbook, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open logbook %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close logbook %s: %w", path, err)
	}

	return &Logbook{path: path}, nil
}

// Append writes one line to the end of the logbook.
func (l *Logbook) Append(line string) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open logbook %s: %w", l.path, err)
	}

	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()

		return fmt.Errorf("append to logbook %s: %w", l.path, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()

		return fmt.Errorf("sync logbook %s: %w", l.path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close logbook %s: %w", l.path, err)
	}

	return nil
}

// Path returns the logbook file path.
func (l *Logbook) Path() string {
	return l.path
}
