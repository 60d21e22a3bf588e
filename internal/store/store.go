// Package store persists editor snapshots as a single JSON file. Writes go
// through a temporary file and a rename so a crash never leaves a truncated
// snapshot behind.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

// ErrNotFound is returned when no snapshot has been saved yet.
var ErrNotFound = errors.New("store: snapshot not found")

// Store reads and writes one snapshot file.
type Store struct {
	path string
}

// New returns a Store backed by path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path is required")
	}
	return &Store{path: filepath.Clean(path)}, nil
}

// Path returns the snapshot file.
func (s *Store) Path() string {
	return s.path
}

// Load decodes the saved snapshot.
func (s *Store) Load(ctx context.Context) (editor.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return editor.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return editor.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return editor.Snapshot{}, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	var snap editor.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return editor.Snapshot{}, fmt.Errorf("store: decode %s: %w", s.path, err)
	}
	return snap, nil
}

// Save writes snap atomically.
func (s *Store) Save(ctx context.Context, snap editor.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}
	return nil
}

// LoadSession restores the saved session, or a fresh one when nothing has
// been saved.
func (s *Store) LoadSession(ctx context.Context, opts ...editor.Option) (*editor.Session, error) {
	snap, err := s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return editor.New(opts...), nil
	}
	if err != nil {
		return nil, err
	}
	return editor.FromSnapshot(snap, opts...), nil
}

// SaveSession persists session.
func (s *Store) SaveSession(ctx context.Context, session *editor.Session) error {
	return s.Save(ctx, session.Snapshot())
}
