package cms

import (
	"io/fs"
	"sync"
)

// Store holds the current Site and swaps it atomically on Reload.
type Store struct {
	mu   sync.RWMutex
	fsys fs.FS
	site *Site
}

// NewStore loads fsys once and keeps it for later reloads.
func NewStore(fsys fs.FS) (*Store, error) {
	site, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	return &Store{fsys: fsys, site: site}, nil
}

// Site returns the current snapshot.
func (s *Store) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Reload re-reads the fixtures. On error the previous snapshot stays active.
func (s *Store) Reload() error {
	site, err := Load(s.fsys)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	return nil
}
