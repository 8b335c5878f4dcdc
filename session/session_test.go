package session

import (
	"errors"
	"testing"
)

type memStore struct {
	items map[string][]byte
	fail  bool
}

func (m *memStore) LoadItem(key string) ([]byte, error) {
	if m.fail {
		return nil, errors.New("disk gone")
	}
	return m.items[key], nil
}

func (m *memStore) SaveItem(key string, data []byte) error {
	if m.fail {
		return errors.New("disk gone")
	}
	m.items[key] = data
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	s := &Store{items: &memStore{items: map[string][]byte{}}}
	if s.Load() != nil {
		t.Fatalf("empty store returned recent files")
	}
	want := Recent{Sprite: "/art/hero.png", Mask: "/art/hero_mask.png", Kind: "player", Size: 8, Index: 1}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := s.Load()
	if got == nil || *got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestStoreNilSafe(t *testing.T) {
	var nilStore *Store
	if nilStore.Load() != nil || nilStore.Save(Recent{}) != nil {
		t.Fatalf("nil store should be a no-op")
	}
	empty := &Store{}
	if empty.Load() != nil || empty.Save(Recent{Sprite: "a.png"}) != nil {
		t.Fatalf("unopened store should be a no-op")
	}
}

func TestStoreFailures(t *testing.T) {
	mem := &memStore{items: map[string][]byte{recentKey: []byte("{not json")}}
	s := &Store{items: mem}
	if s.Load() != nil {
		t.Fatalf("corrupt data should load as nothing")
	}
	mem.fail = true
	if s.Load() != nil {
		t.Fatalf("failing store should load as nothing")
	}
	if err := s.Save(Recent{}); err == nil {
		t.Fatalf("expected save error")
	}
}
