package server

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spektr-org/vizchat/render"
)

// renderCache keeps rendered bodies keyed by the request body and format.
type renderCache struct {
	entries *lru.Cache[string, []byte]
	hits    atomic.Int64
	misses  atomic.Int64
}

func newRenderCache(size int) (*renderCache, error) {
	if size <= 0 {
		size = 256
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &renderCache{entries: entries}, nil
}

func cacheKey(body []byte, f render.Format) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]) + ":" + string(f)
}

func (c *renderCache) get(key string) ([]byte, bool) {
	out, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return out, ok
}

func (c *renderCache) add(key string, out []byte) {
	c.entries.Add(key, out)
}
