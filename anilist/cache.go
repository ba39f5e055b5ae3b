package anilist

import (
	"sync"
	"time"

	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// missLifetime bounds how long a title without a catalog match is skipped.
const missLifetime = 6 * time.Hour

type cacheData[K comparable, T any] struct {
	Titles map[K]T `json:"titles"`
}

// cacher is a thread-safe keyed view over a single gache file.
// Entries for which stale reports true are treated as absent and dropped on the next write.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	stale      func(T) bool
	mu         sync.RWMutex
}

func newCacher[T any](path string, stale func(T) bool) *cacher[string, T] {
	return &cacher[string, T]{
		internal: gache.New[*cacheData[string, T]](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
		keyWrapper: normalizedName,
		stale:      stale,
	}
}

func (c *cacher[K, T]) isStale(t T) bool {
	return c.stale != nil && c.stale(t)
}

// Get retrieves the value stored under key.
func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	value, ok := data.Titles[c.keyWrapper(key)]
	if ok && !c.isStale(value) {
		return mo.Some(value)
	}

	return mo.None[T]()
}

// Set stores t under key.
func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil || data.Titles == nil {
		data = &cacheData[K, T]{Titles: make(map[K]T)}
	}

	for k, v := range data.Titles {
		if c.isStale(v) {
			delete(data.Titles, k)
		}
	}

	data.Titles[c.keyWrapper(key)] = t
	return c.internal.Set(data)
}
