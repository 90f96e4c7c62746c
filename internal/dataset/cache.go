// internal/dataset/cache.go
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mwiater/prefdash/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Cache keeps parsed tables in memory and reparses a file only when its size or
// modification time changes. It is safe for concurrent use.
type Cache struct {
	loader  Loader
	mutex   sync.Mutex
	entries map[Name]cacheEntry
	stat    func(string) (os.FileInfo, error)
}

type cacheEntry struct {
	table   *Table
	size    int64
	modTime time.Time
}

// NewCache creates a cache in front of loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[Name]cacheEntry),
		stat:    os.Stat,
	}
}

// Loader returns the underlying loader.
func (c *Cache) Loader() Loader { return c.loader }

// Get returns the named table, reusing the cached copy when the file is unchanged.
func (c *Cache) Get(name Name) (*Table, error) {
	path := c.loader.Path(name)
	info, err := c.stat(path)
	if err != nil {
		c.evict(name)
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}

	c.mutex.Lock()
	entry, ok := c.entries[name]
	c.mutex.Unlock()
	if ok && entry.table.Path == path && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.table, nil
	}

	table, err := c.loader.Load(name)
	if err != nil {
		c.evict(name)
		return nil, err
	}
	logging.LogEvent("[DATASET] loaded %s from %s: %s rows, %s", name, path, humanize.Comma(int64(table.Len())), humanize.Bytes(uint64(info.Size())))

	c.mutex.Lock()
	c.entries[name] = cacheEntry{table: table, size: info.Size(), modTime: info.ModTime()}
	c.mutex.Unlock()
	return table, nil
}

func (c *Cache) evict(name Name) {
	c.mutex.Lock()
	delete(c.entries, name)
	c.mutex.Unlock()
}

// Warm loads every named dataset concurrently. Missing datasets are logged and
// skipped; any other failure is returned.
func (c *Cache) Warm(ctx context.Context, names ...Name) error {
	g, _ := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			if _, err := c.Get(name); err != nil {
				if errors.Is(err, ErrNotFound) {
					logging.LogEvent("[DATASET] %s unavailable: %v", name, err)
					return nil
				}
				return fmt.Errorf("warm %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
