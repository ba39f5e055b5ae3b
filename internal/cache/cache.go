// Package cache persists aggregated listings as {"timestamp", "data"} JSON documents, one file per key.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/anisan-cli/anibridge/config"
	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/log"
	"github.com/anisan-cli/anibridge/util"
	"github.com/anisan-cli/anibridge/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// GarbageAge is the age past which CollectGarbage removes an entry regardless of its category.
const GarbageAge = 7 * 24 * time.Hour

// Provider is the cache surface the aggregator depends on.
type Provider interface {
	// Load returns the payload stored under key when it is younger than maxAge.
	Load(key string, maxAge time.Duration) mo.Option[json.RawMessage]
	// Store writes data under key with the current time.
	Store(key string, data any) error
}

// Entry is the on-disk document.
type Entry struct {
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Age reports how old the entry is relative to now.
func (e *Entry) Age(now time.Time) time.Duration {
	stored := time.Unix(0, int64(e.Timestamp*float64(time.Second)))
	return now.Sub(stored)
}

// Store is a Provider backed by the filesystem package.
type Store struct {
	dir      string
	now      func() time.Time
	disabled bool
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDisabled turns every Load into a miss and every Store into a no-op.
func WithDisabled(disabled bool) Option {
	return func(s *Store) { s.disabled = disabled }
}

// New creates a Store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Default creates the Store under where.DataCache honoring cache.enabled.
func Default(cfg config.Provider) *Store {
	return New(where.DataCache(), WithDisabled(!config.Bool(cfg, key.CacheEnabled, true)))
}

// Key builds a filename such as "trending_week_20.json" from an operation and its arguments.
func Key(op string, args ...any) string {
	parts := append([]string{op}, lo.Map(args, func(a any, _ int) string {
		return strings.ToLower(fmt.Sprint(a))
	})...)
	return util.SanitizeFilename(strings.Join(parts, "_")) + ".json"
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key))
}

func (s *Store) read(path string) (*Entry, error) {
	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}

// Load implements Provider.
func (s *Store) Load(key string, maxAge time.Duration) mo.Option[json.RawMessage] {
	if s.disabled {
		return mo.None[json.RawMessage]()
	}

	entry, err := s.read(s.path(key))
	if err != nil {
		if !isNotExist(err) {
			log.Warn(err)
		}
		return mo.None[json.RawMessage]()
	}

	if entry.Age(s.now()) > maxAge || len(entry.Data) == 0 {
		return mo.None[json.RawMessage]()
	}

	log.Debugf("cache hit %s", key)
	return mo.Some(entry.Data)
}

// Store implements Provider.
func (s *Store) Store(key string, data any) error {
	if s.disabled {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache payload %s: %w", key, err)
	}

	now := s.now()
	doc, err := json.Marshal(&Entry{
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Data:      payload,
	})
	if err != nil {
		return err
	}

	if err := filesystem.API().MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return filesystem.WriteAtomic(s.path(key), doc)
}

func (s *Store) entries() ([]string, error) {
	infos, err := filesystem.API().ReadDir(s.dir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return lo.FilterMap(infos, func(info fs.FileInfo, _ int) (string, bool) {
		return filepath.Join(s.dir, info.Name()), !info.IsDir() && strings.HasSuffix(info.Name(), ".json")
	}), nil
}

// Clear removes every entry and reports how many were removed.
func (s *Store) Clear() (int, error) {
	paths, err := s.entries()
	if err != nil {
		return 0, err
	}

	var removed int
	for _, p := range paths {
		if err := filesystem.API().Remove(p); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Size reports the total size of all entries in bytes.
func (s *Store) Size() (int64, error) {
	paths, err := s.entries()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, p := range paths {
		info, err := filesystem.API().Stat(p)
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// CollectGarbage removes entries older than GarbageAge and unreadable ones.
func (s *Store) CollectGarbage() {
	paths, err := s.entries()
	if err != nil {
		log.Warn(err)
		return
	}

	now := s.now()
	for _, p := range paths {
		entry, err := s.read(p)
		if err == nil && entry.Age(now) <= GarbageAge {
			continue
		}
		if err := filesystem.API().Remove(p); err != nil {
			log.Warn(err)
		}
	}
}

// LoadInto decodes a cache hit into T. A hit that does not decode counts as a miss.
func LoadInto[T any](p Provider, key string, maxAge time.Duration) mo.Option[T] {
	raw, ok := p.Load(key, maxAge).Get()
	if !ok {
		return mo.None[T]()
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warnf("cache entry %s: %v", key, err)
		return mo.None[T]()
	}
	return mo.Some(value)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
