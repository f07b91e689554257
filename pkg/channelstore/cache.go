package channelstore

import (
	"encoding/json"

	"github.com/peterbourgon/diskv/v3"
	log "github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

const cacheKey = "channels"

// Cache persists the last successfully fetched channel list. When the
// initial fetch fails at startup, the cached list seeds the store so the
// dashboard opens stale-but-available instead of empty.
type Cache struct {
	d *diskv.Diskv
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// Put stores a channel list snapshot.
func (c *Cache) Put(channels []scrollrapi.Channel) error {
	buf, err := json.Marshal(channels)
	if err != nil {
		return err
	}
	return c.d.Write(cacheKey, buf)
}

// Get returns the cached channel list, if one exists and decodes.
func (c *Cache) Get() ([]scrollrapi.Channel, bool) {
	buf, err := c.d.Read(cacheKey)
	if err != nil {
		return nil, false
	}
	var channels []scrollrapi.Channel
	if err := json.Unmarshal(buf, &channels); err != nil {
		log.Debugf("Discarding corrupt channel cache: %v", err)
		return nil, false
	}
	return channels, true
}

// Clear removes the cached list.
func (c *Cache) Clear() error {
	err := c.d.Erase(cacheKey)
	if err != nil && !c.d.Has(cacheKey) {
		return nil
	}
	return err
}
