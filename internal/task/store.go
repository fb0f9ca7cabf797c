package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store is the durable name→task mapping, backed by one JSON file. All
// access goes through a single mutex so concurrent save/delete calls within
// the process cannot lose updates; cross-process writers are unsupported.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save writes or overwrites the named task. Overwriting preserves the
// original creation time and refreshes the update time. The returned flag
// reports whether a new record was created rather than an existing one
// replaced.
func (s *Store) Save(name, description, script string, scriptType ScriptType) (*Task, bool, error) {
	if name == "" {
		return nil, false, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if script == "" {
		return nil, false, &ValidationError{Field: "script", Reason: "must not be empty"}
	}
	if scriptType != ScriptShell && scriptType != ScriptPython {
		return nil, false, &ValidationError{Field: "script_type", Reason: "must be \"shell\" or \"python\""}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, false, err
	}

	now := s.now().UTC().Truncate(time.Second)
	record := &Task{
		Name:        name,
		Description: description,
		Script:      script,
		ScriptType:  scriptType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, exists := tasks[name]
	if exists {
		record.CreatedAt = tasks[name].CreatedAt
		slog.Info("Updating existing task", "name", name)
	} else {
		slog.Info("Creating new task", "name", name)
	}
	tasks[name] = record

	if err := s.persist(tasks); err != nil {
		return nil, false, err
	}
	return record, !exists, nil
}

// List returns summaries of every stored task, sorted by name. An empty or
// absent file yields an empty slice.
func (s *Store) List() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(tasks))
	for name, t := range tasks {
		summaries = append(summaries, Summary{
			Name:        name,
			Description: t.Description,
			ScriptType:  t.ScriptType,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// Get returns the full record for name, or ErrNotFound.
func (s *Store) Get(name string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	t, ok := tasks[name]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// Delete removes the named task, or returns ErrNotFound if it is absent.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := tasks[name]; !ok {
		return ErrNotFound
	}
	delete(tasks, name)
	slog.Info("Deleted task", "name", name)
	return s.persist(tasks)
}

// load reads the full map. Callers must hold the mutex. A missing file is an
// empty store, not an error.
func (s *Store) load() (map[string]*Task, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]*Task), nil
	}
	if err != nil {
		return nil, &StorageError{Path: s.path, Err: err}
	}

	tasks := make(map[string]*Task)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, &StorageError{Path: s.path, Err: err}
		}
	}
	for name, t := range tasks {
		// A null record is valid JSON but corrupt by the store's schema.
		if t == nil {
			return nil, &StorageError{Path: s.path, Err: fmt.Errorf("null record %q", name)}
		}
		t.Name = name
	}
	return tasks, nil
}

// persist rewrites the whole file through a temp file and rename so a crash
// mid-write never leaves a partial document. Callers must hold the mutex.
func (s *Store) persist(tasks map[string]*Task) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return &StorageError{Path: s.path, Err: err}
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return &StorageError{Path: s.path, Err: err}
	}
	return nil
}
