// Package session remembers which files were last previewed.
package session

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
)

const recentKey = "recent"

// Recent holds the last used input paths.
type Recent struct {
	Spec   string `json:"spec"`
	Sprite string `json:"sprite"`
	Mask   string `json:"mask"`
	Kind   string `json:"kind"`
	Size   int    `json:"size"`
	Index  int    `json:"index"`
}

type itemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Store persists Recent between runs. A nil Store, or one whose storage
// failed to open, does nothing.
type Store struct {
	items itemStore
}

// Open opens the per-user data directory for appName. When that fails the
// returned Store is still usable and never saves anything.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("session: could not open storage: %v", err)
		return &Store{}, err
	}
	return &Store{items: m}, nil
}

// Load returns the saved paths, or nil when nothing has been saved.
func (s *Store) Load() *Recent {
	if s == nil || s.items == nil {
		return nil
	}
	data, err := s.items.LoadItem(recentKey)
	if err != nil {
		log.Printf("session: could not load recent files: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var r Recent
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("session: could not parse recent files: %v", err)
		return nil
	}
	return &r
}

func (s *Store) Save(r Recent) error {
	if s == nil || s.items == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.items.SaveItem(recentKey, data); err != nil {
		log.Printf("session: could not save recent files: %v", err)
		return err
	}
	return nil
}
