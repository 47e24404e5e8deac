package shifts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// DateLayout keys both the activity blob and the schedule blob.
const DateLayout = "2006-01-02"

// ActivityStore records the date of each worker's last successful append.
// One JSON document, rewritten whole on every update.
type ActivityStore struct {
	path string
	mu   sync.Mutex
}

func NewActivityStore(path string) *ActivityStore {
	return &ActivityStore{path: path}
}

// Touch stores t's date for the worker.
func (s *ActivityStore) Touch(workerID int64, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]string{}
	}
	data[strconv.FormatInt(workerID, 10)] = t.Format(DateLayout)
	return s.write(data)
}

// Last returns the worker's last activity date, false if never seen.
func (s *ActivityStore) Last(workerID int64) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return time.Time{}, false, err
	}
	raw, ok := data[strconv.FormatInt(workerID, 10)]
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("activity date for %d: %w", workerID, err)
	}
	return t, true, nil
}

func (s *ActivityStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse activity: %w", err)
	}
	return data, nil
}

func (s *ActivityStore) write(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create activity dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write activity: %w", err)
	}
	return nil
}
