// Package store persists curator's local auxiliary state: brand exclusion
// lists edited in the generate step and the last UI state. Everything
// remote-authoritative lives on the hub; nothing here is a cache of it.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketBrandLists = []byte("brand_lists")
	bucketUIState    = []byte("ui_state")
	keyUIState       = []byte("state")
)

var ErrBrandListNotFound = errors.New("brand list not found")

type BrandList struct {
	Target     string    `json:"target"`
	Variations []string  `json:"variations"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UIState is the slice of UI state worth restoring across launches.
type UIState struct {
	ActiveGroupID int64  `json:"active_group_id,omitempty"`
	LastTarget    string `json:"last_target,omitempty"`
	LastLocale    string `json:"last_locale,omitempty"`
}

type Store struct {
	db *bolt.DB
}

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBrandLists); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketUIState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) BrandList(target string) (*BrandList, error) {
	key := normalizeTarget(target)
	if key == "" {
		return nil, errors.New("target is required")
	}
	var list *BrandList
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketBrandLists).Get([]byte(key))
		if data == nil {
			return ErrBrandListNotFound
		}
		decoded := &BrandList{}
		if err := json.Unmarshal(data, decoded); err != nil {
			return err
		}
		list = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) SaveBrandList(target string, variations []string) (*BrandList, error) {
	key := normalizeTarget(target)
	if key == "" {
		return nil, errors.New("target is required")
	}
	list := &BrandList{
		Target:     key,
		Variations: normalizeVariations(variations),
		UpdatedAt:  time.Now().UTC(),
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBrandLists).Put([]byte(key), data)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) ListBrandTargets() ([]string, error) {
	var targets []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBrandLists).ForEach(func(k, _ []byte) error {
			targets = append(targets, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(targets)
	return targets, nil
}

func (s *Store) UIState() (*UIState, error) {
	state := &UIState{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketUIState).Get(keyUIState)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) SaveUIState(state *UIState) error {
	if state == nil {
		return errors.New("state is required")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUIState).Put(keyUIState, data)
	})
}

func normalizeTarget(target string) string {
	target = strings.ToLower(strings.TrimSpace(target))
	target = strings.TrimPrefix(target, "https://")
	target = strings.TrimPrefix(target, "http://")
	return strings.TrimRight(target, "/")
}

func normalizeVariations(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		lower := strings.ToLower(value)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, value)
	}
	return out
}
