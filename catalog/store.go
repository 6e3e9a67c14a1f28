package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexandro/assetview-mcp/filetype"
)

// Snapshot is one loaded catalog. Entry ids index directly into Entries.
type Snapshot struct {
	LoadID   uuid.UUID
	Source   string
	LoadedAt time.Time
	Entries  []Entry
}

// NewSnapshot wraps freshly mapped entries with a new load id.
func NewSnapshot(source string, entries []Entry) *Snapshot {
	return &Snapshot{
		LoadID:   uuid.New(),
		Source:   source,
		LoadedAt: time.Now(),
		Entries:  entries,
	}
}

// Lookup returns the entry with the given id.
func (s *Snapshot) Lookup(id int) (Entry, bool) {
	if s == nil || id < 0 || id >= len(s.Entries) {
		return Entry{}, false
	}
	return s.Entries[id], true
}

// TotalSizeBytes returns the summed size of all entries.
func (s *Snapshot) TotalSizeBytes() int64 {
	if s == nil {
		return 0
	}
	var total int64
	for _, entry := range s.Entries {
		total += entry.Size
	}
	return total
}

// TypeCounts returns the number of entries per preview category.
func (s *Snapshot) TypeCounts() map[filetype.Type]int {
	counts := make(map[filetype.Type]int)
	if s == nil {
		return counts
	}
	for _, entry := range s.Entries {
		counts[entry.Type]++
	}
	return counts
}

// Store holds the current snapshot. A reload replaces the snapshot wholesale.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates a store with no catalog loaded.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new snapshot.
func (s *Store) Replace(snapshot *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snapshot
}

// Current returns the installed snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether any catalog has been installed.
func (s *Store) Loaded() bool {
	return s.Current() != nil
}
