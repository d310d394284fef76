package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/brickwall/pkg/cache"
)

// ErrExpired is returned by [Store.Get] when an entry exists but is older
// than the store's TTL. The stale entry is left on disk.
var ErrExpired = errors.New("store entry expired")

// Store memoizes JSON values on disk, one file per key.
//
// File names are the SHA-256 of the namespaced key. Writes go through a
// temporary file and rename, so concurrent readers never see partial
// entries. A TTL of 0 disables expiry.
type Store struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewStore creates a store in dir. An empty dir means "<cache dir>/http"
// under [cache.DefaultDir].
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		base, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// TTL returns the entry lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Get decodes the entry for key into v. It reports false with a nil error
// on a miss, and false with [ErrExpired] for a stale entry.
func (s *Store) Get(key string, v any) (bool, error) {
	path := s.path(key)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if s.ttl > 0 && time.Since(info.ModTime()) > s.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key, refreshing its modification time.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".store-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

// Namespace returns a view whose keys are prefixed with prefix. Prefixes
// chain.
func (s *Store) Namespace(prefix string) *Store {
	return &Store{dir: s.dir, ttl: s.ttl, prefix: s.prefix + prefix}
}

func (s *Store) path(key string) string {
	h := sha256.Sum256([]byte(s.prefix + key))
	return filepath.Join(s.dir, hex.EncodeToString(h[:]))
}
