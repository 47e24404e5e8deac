// Package notes keeps the free-form note blob: one JSON document per bot
// process, whole-document reads and writes. Local only; nothing here ever
// touches the remote ledger.
package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type Store struct {
	dir    string
	pid    int
	logger *slog.Logger
	mu     sync.Mutex
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, pid: os.Getpid(), logger: logger}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fmt.Sprintf("notes_%d.json", s.pid))
}

// Save appends the note unless an identical one is already stored.
// Returns false when the note is a duplicate.
func (s *Store) Save(note string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return false, err
	}
	for _, n := range existing {
		if n == note {
			return false, nil
		}
	}
	existing = append(existing, note)
	if err := s.write(existing); err != nil {
		return false, err
	}
	s.logger.Info("notes.save.ok", "path", s.path(), "count", len(existing))
	return true, nil
}

// DeleteLast removes the most recent note. Returns false when there was
// nothing to remove.
func (s *Store) DeleteLast() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return false, err
	}
	if len(existing) == 0 {
		return false, nil
	}
	existing = existing[:len(existing)-1]
	if len(existing) == 0 {
		if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("remove note file: %w", err)
		}
		return true, nil
	}
	return true, s.write(existing)
}

func (s *Store) load() ([]string, error) {
	raw, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}
	var notes []string
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("parse notes: %w", err)
	}
	return notes, nil
}

func (s *Store) write(notes []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(), raw, 0o644); err != nil {
		return fmt.Errorf("write notes: %w", err)
	}
	return nil
}
