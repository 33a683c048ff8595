// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

// Package journal keeps an append-only log of attempted and completed
// remote operations. The journal is diagnostic: nothing reads it to decide
// behavior, it only lets an operator reconstruct what was pushed where
// after a crash or a half-finished renew.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Entry records one remote operation attempt.
type Entry struct {
	ID       string    `json:"id" yaml:"id"`
	Time     time.Time `json:"time" yaml:"time"`
	Action   string    `json:"action" yaml:"action"` // "deploy" or "revoke"
	Target   string    `json:"target" yaml:"target"`
	Identity string    `json:"identity" yaml:"identity"`
	Port     int       `json:"port" yaml:"port"`
	OK       bool      `json:"ok" yaml:"ok"`
	Detail   string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Journal appends entries to a YAML stream on disk, one document per entry.
type Journal struct {
	path string
}

// Open returns a journal backed by the given file. The file and its parent
// directory are created lazily on first append.
func Open(path string) *Journal {
	return &Journal{path: path}
}

// DefaultPath returns the conventional journal location under the user's
// data directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "sshkeyctl", "journal.yaml"), nil
}

// Record appends an entry, filling in its ID and timestamp.
func (j *Journal) Record(e Entry) error {
	e.ID = uuid.NewString()
	e.Time = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(j.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	if _, err := fmt.Fprintf(f, "---\n%s", data); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Entries returns all journal entries in append order. A missing journal
// file yields no entries.
func (j *Journal) Entries() ([]Entry, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	dec := yaml.NewDecoder(f)
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode journal: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
