// Package thumb is the content-addressable thumbnail cache backing the
// image-list dock. It is a collaborator of the sync engine, never invoked
// during text synchronization.
package thumb

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"livemark/internal/app"
	"livemark/internal/metrics"
)

// indexName is the cache index file inside the cache directory.
const indexName = "index.msgpack"

// Generator renders a thumbnail of srcPath into dstPath at the target pixel
// size.
type Generator func(srcPath, dstPath string, targetPx int) error

// entry records one cached thumbnail.
type entry struct {
	Source   string `msgpack:"source"`
	Thumb    string `msgpack:"thumb"`
	ModTime  int64  `msgpack:"mod_time"`
	Size     int64  `msgpack:"size"`
	TargetPx int    `msgpack:"target_px"`
}

// Cache is a content-addressable disk cache of image thumbnails.
//
// Entries are keyed by a digest of (absolute path, modification time, byte
// size, target pixel size), so an edited image or a changed target size
// misses naturally. The index is persisted so thumbnails survive restarts.
type Cache struct {
	dir      string
	generate Generator
	log      *app.Logger

	mu       sync.Mutex
	targetPx int
	entries  map[string]entry // keyed by digest

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithGenerator replaces the default image scaler.
func WithGenerator(g Generator) Option {
	return func(c *Cache) { c.generate = g }
}

// WithLogger sets the cache's logger.
func WithLogger(log *app.Logger) Option {
	return func(c *Cache) { c.log = log.WithComponent("thumb") }
}

// NewCache opens (or creates) a thumbnail cache rooted at dir.
func NewCache(dir string, targetPx int, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating thumbnail cache dir: %w", err)
	}
	c := &Cache{
		dir:      dir,
		targetPx: targetPx,
		generate: generateThumbnail,
		log:      app.NullLogger,
		entries:  make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.loadIndex()
	return c, nil
}

// Get returns the path of a raster thumbnail for the image at absPath,
// generating and caching it on a miss. Concurrent misses for the same digest
// collapse into a single generation.
func (c *Cache) Get(absPath string) (string, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", absPath, err)
	}

	c.mu.Lock()
	px := c.targetPx
	digest := digestOf(absPath, info.ModTime().UnixNano(), info.Size(), px)
	if e, ok := c.entries[digest]; ok {
		c.mu.Unlock()
		if fileExists(e.Thumb) {
			metrics.ThumbnailHits.WithLabelValues("hit").Inc()
			return e.Thumb, nil
		}
		// Thumb file vanished; regenerate below.
		c.mu.Lock()
		delete(c.entries, digest)
	}
	c.mu.Unlock()

	metrics.ThumbnailHits.WithLabelValues("miss").Inc()
	v, err, _ := c.group.Do(digest, func() (any, error) {
		dst := filepath.Join(c.dir, digest+".png")
		if err := c.generate(absPath, dst, px); err != nil {
			return "", fmt.Errorf("generating thumbnail for %s: %w", absPath, err)
		}
		c.mu.Lock()
		c.entries[digest] = entry{
			Source:   absPath,
			Thumb:    dst,
			ModTime:  info.ModTime().UnixNano(),
			Size:     info.Size(),
			TargetPx: px,
		}
		c.saveIndexLocked()
		c.mu.Unlock()
		return dst, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops all cached thumbnails for the given source image.
func (c *Cache) Invalidate(absPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for digest, e := range c.entries {
		if e.Source == absPath {
			_ = os.Remove(e.Thumb)
			delete(c.entries, digest)
		}
	}
	c.saveIndexLocked()
}

// InvalidateAll drops every cached thumbnail.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		_ = os.Remove(e.Thumb)
	}
	c.entries = make(map[string]entry)
	c.saveIndexLocked()
}

// SetTargetSize changes the target pixel size for subsequent lookups.
// Existing entries keep their digests and simply stop matching.
func (c *Cache) SetTargetSize(px int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetPx = px
}

// TargetSize returns the current target pixel size.
func (c *Cache) TargetSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetPx
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) indexPath() string {
	return filepath.Join(c.dir, indexName)
}

// loadIndex restores the persisted index; a missing or corrupt index starts
// the cache empty.
func (c *Cache) loadIndex() {
	data, err := os.ReadFile(c.indexPath())
	if err != nil {
		return
	}
	var entries map[string]entry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		c.log.Warn("thumbnail index unreadable, starting empty: %v", err)
		return
	}
	c.entries = entries
}

// saveIndexLocked persists the index best-effort; the cache degrades to
// regeneration when persistence fails.
func (c *Cache) saveIndexLocked() {
	data, err := msgpack.Marshal(c.entries)
	if err != nil {
		c.log.Warn("encoding thumbnail index: %v", err)
		return
	}
	if err := os.WriteFile(c.indexPath(), data, 0o644); err != nil {
		c.log.Warn("writing thumbnail index: %v", err)
	}
}

func digestOf(path string, modTime, size int64, px int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%d", path, modTime, size, px)
	return hex.EncodeToString(h.Sum(nil))[:32]
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
