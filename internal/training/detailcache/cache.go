// Package detailcache keeps exercise details in memory, shared by all engines of a process.
package detailcache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/training"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte = 1024 * 1024

	DefaultSizeMB = 32
	DefaultTTL    = 6 * time.Hour
)

type Cache struct {
	cache         *freecache.Cache
	expireSeconds int
}

// New creates a cache of sizeMB megabytes. Entries expire after ttl; a ttl
// below one second keeps them until evicted.
func New(sizeMB int, ttl time.Duration) *Cache {
	if sizeMB <= 0 {
		sizeMB = DefaultSizeMB
	}
	return &Cache{
		cache:         freecache.NewCache(sizeMB * megabyte),
		expireSeconds: int(ttl / time.Second),
	}
}

func cacheKey(exerciseID int64) []byte {
	return []byte(fmt.Sprintf("exercise::%d", exerciseID))
}

func (c *Cache) Get(exerciseID int64) (*training.ExerciseDetail, bool) {
	detailBytes, err := c.cache.Get(cacheKey(exerciseID))
	if err != nil {
		log.Tracef("exercise %d detail not in cache: %s", exerciseID, err)
		return nil, false
	}

	detail := &training.ExerciseDetail{}
	if err := json.Unmarshal(detailBytes, detail); err != nil {
		log.Errorf("failed to unmarshal exercise %d detail from cache: %s", exerciseID, err)
		c.cache.Del(cacheKey(exerciseID))
		return nil, false
	}
	return detail, true
}

// Set stores the detail. Fallback details are never cached.
func (c *Cache) Set(detail training.ExerciseDetail) {
	if detail.Fallback {
		return
	}

	detailBytes, err := json.Marshal(detail)
	if err != nil {
		log.Errorf("failed to marshal exercise %d detail: %s", detail.ID, err)
		return
	}
	if err := c.cache.Set(cacheKey(detail.ID), detailBytes, c.expireSeconds); err != nil {
		log.Errorf("failed to cache exercise %d detail: %s", detail.ID, err)
	}
}

func (c *Cache) Delete(exerciseID int64) bool {
	return c.cache.Del(cacheKey(exerciseID))
}

func (c *Cache) EntryCount() int64 {
	return c.cache.EntryCount()
}

func (c *Cache) Clear() {
	c.cache.Clear()
}
