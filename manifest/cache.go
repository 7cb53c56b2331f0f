package manifest

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	modTime time.Time
	size    int64
	pkg     *PackageJSON
}

// CachedReader memoizes parsed manifests keyed on path. An entry is reused only while
// the file's modification time and size are unchanged, so results always match a
// fresh read. Failures are never cached.
type CachedReader struct {
	inner Reader
	cache *lru.Cache[string, cacheEntry]
}

// NewCachedReader wraps inner with an LRU of the given size
func NewCachedReader(inner Reader, size int) (*CachedReader, error) {
	if inner == nil {
		inner = FileReader{}
	}
	if size < 1 {
		size = 128
	}

	cache, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, err
	}

	return &CachedReader{
		inner: inner,
		cache: cache,
	}, nil
}

// Read returns the cached manifest when the file is unchanged, otherwise reads it
func (c *CachedReader) Read(path string) (*PackageJSON, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.cache.Remove(path)
		return c.inner.Read(path)
	}

	if entry, ok := c.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.pkg, nil
	}

	pkg, err := c.inner.Read(path)
	if err != nil {
		c.cache.Remove(path)
		return nil, err
	}

	c.cache.Add(path, cacheEntry{modTime: info.ModTime(), size: info.Size(), pkg: pkg})
	return pkg, nil
}

// Invalidate drops the entry for path
func (c *CachedReader) Invalidate(path string) {
	c.cache.Remove(path)
}

// Purge drops every entry
func (c *CachedReader) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached manifests
func (c *CachedReader) Len() int {
	return c.cache.Len()
}
