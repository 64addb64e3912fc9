package jsonfile

import (
	"context"
	"fmt"
	"sync"

	"github.com/hay-kot/scout/internal/core/recent"
)

// recentFile is the root JSON structure stored on disk.
type recentFile struct {
	Entries []recent.Entry `json:"entries"`
}

// RecentStore implements recent.Store using a JSON file for persistence.
type RecentStore struct {
	path       string
	maxEntries int
	mu         sync.RWMutex
}

var _ recent.Store = (*RecentStore)(nil)

// NewRecentStore creates a store at the given path.
// maxEntries limits stored entries (0 means unlimited).
func NewRecentStore(path string, maxEntries int) *RecentStore {
	return &RecentStore{path: path, maxEntries: maxEntries}
}

// List returns all entries, most recent first.
func (s *RecentStore) List(ctx context.Context) ([]recent.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	if f.Entries == nil {
		return []recent.Entry{}, nil
	}
	return f.Entries, nil
}

// Save puts entry first, dropping any older entry for the same record, and
// prunes to maxEntries.
func (s *RecentStore) Save(ctx context.Context, entry recent.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	entries := make([]recent.Entry, 0, len(f.Entries)+1)
	entries = append(entries, entry)
	for _, e := range f.Entries {
		if !e.Same(entry) {
			entries = append(entries, e)
		}
	}

	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	return s.save(recentFile{Entries: entries})
}

// Clear removes all entries.
func (s *RecentStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(recentFile{Entries: []recent.Entry{}})
}

func (s *RecentStore) load() (recentFile, error) {
	var f recentFile
	if err := readJSON(s.path, &f); err != nil {
		return recentFile{}, fmt.Errorf("%w (run 'scout recent --clear' to reset)", err)
	}
	return f, nil
}

func (s *RecentStore) save(f recentFile) error {
	return writeJSON(s.path, f)
}
