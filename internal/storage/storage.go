// Package storage persists interview summaries under the user state
// directory so results can be reviewed after the session ends.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/IqraShah110/practice2panel/internal/api"
	"github.com/IqraShah110/practice2panel/internal/logging"
)

// ErrNoRecords means no summaries have been saved yet.
var ErrNoRecords = errors.New("no saved interview summaries")

// Record is one persisted summary with its save time.
type Record struct {
	SavedAt time.Time   `json:"saved_at"`
	Summary api.Summary `json:"summary"`
}

// Store reads and writes summary records in one directory.
type Store struct {
	dir string
}

// New returns a Store rooted in the user state directory.
func New() (*Store, error) {
	stateDir, err := logging.StateDir()
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	return NewAt(filepath.Join(stateDir, "sessions")), nil
}

// NewAt returns a Store rooted at dir. Used directly by tests.
func NewAt(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the summary as a timestamped JSON file and returns its
// path.
func (s *Store) Save(summary api.Summary) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create sessions dir: %w", err)
	}

	record := Record{SavedAt: time.Now(), Summary: summary}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}

	name := fmt.Sprintf("summary-%s.json", record.SavedAt.Format("20060102-150405.000"))
	if id := sanitizeID(summary.SessionID); id != "" {
		name = fmt.Sprintf("summary-%s-%s.json", record.SavedAt.Format("20060102-150405.000"), id)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

// sanitizeID keeps only filename-safe characters of a session id.
func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Latest returns the most recently saved record.
func (s *Store) Latest() (Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrNoRecords
		}
		return Record{}, fmt.Errorf("read sessions dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "summary-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return Record{}, ErrNoRecords
	}

	// Timestamped names sort chronologically.
	sort.Strings(names)
	path := filepath.Join(s.dir, names[len(names)-1])

	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read summary %s: %w", path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode summary %s: %w", path, err)
	}
	return record, nil
}
