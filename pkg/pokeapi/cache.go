package pokeapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// DiskCache is a ResponseCache persisted under a directory with diskv. Keys
// are the hex sha256 of the request URL, fanned out by their first two
// characters.
type DiskCache struct {
	d *diskv.Diskv
}

var _ ResponseCache = (*DiskCache)(nil)

// NewDiskCache opens (creating if needed) a response cache rooted at dir.
// cacheSizeMax bounds the in-memory read cache in bytes.
func NewDiskCache(dir string, cacheSizeMax uint64) (*DiskCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty cache dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	d := diskv.New(diskv.Options{
		BasePath: dir,
		Transform: func(key string) []string {
			if len(key) < 2 {
				return []string{}
			}
			return []string{key[:2]}
		},
		CacheSizeMax: cacheSizeMax,
	})
	return &DiskCache{d: d}, nil
}

func cacheKey(u string) string {
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:])
}

func (c *DiskCache) Get(u string) ([]byte, bool) {
	key := cacheKey(u)
	if !c.d.Has(key) {
		return nil, false
	}
	b, err := c.d.Read(key)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *DiskCache) Put(u string, body []byte) error {
	return c.d.Write(cacheKey(u), body)
}

// Purge removes every cached response.
func (c *DiskCache) Purge() error {
	return c.d.EraseAll()
}
