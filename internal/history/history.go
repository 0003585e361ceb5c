// Package history keeps a small on-disk journal of kill attempts so the
// user can review what portclean did in past runs.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxEvents bounds the journal; older events are pruned on save.
const maxEvents = 500

// Event records one termination attempt.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Port      int       `json:"port"`
	PID       int       `json:"pid"`
	Command   string    `json:"command"`
	Killed    bool      `json:"killed"`
	Detail    string    `json:"detail,omitempty"` // failure reason, if any
}

// Store manages journal persistence at ~/.config/portclean/history.json.
type Store struct {
	path string
}

// Data is the on-disk format for the journal file.
type Data struct {
	Events []Event `json:"events"`
}

// NewStore creates a Store with the default path.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &Store{
		path: filepath.Join(home, ".config", "portclean", "history.json"),
	}, nil
}

// NewStoreWithPath creates a Store at the given path (useful for testing).
func NewStoreWithPath(path string) *Store {
	return &Store{path: path}
}

// Load reads the journal from disk. Returns empty data if the file does
// not exist.
func (s *Store) Load() (*Data, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &Data{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return &data, nil
}

// Append adds events to the journal and saves it, pruning to the most
// recent maxEvents entries.
func (s *Store) Append(events ...Event) error {
	data, err := s.Load()
	if err != nil {
		return err
	}

	data.Events = append(data.Events, events...)
	if n := len(data.Events); n > maxEvents {
		data.Events = data.Events[n-maxEvents:]
	}
	return s.save(data)
}

func (s *Store) save(data *Data) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
