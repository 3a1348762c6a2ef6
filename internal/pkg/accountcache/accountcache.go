package accountcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/humberto3389/Bodas-sub000/app/models"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/cache"
	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

const keyPrefix = "account:snapshot:"

// Loader fetches the authoritative account row on a cache miss.
type Loader interface {
	GetByID(id uint) (*models.Account, error)
}

// Cache is a read-through snapshot cache for account rows. Snapshots
// expire after a TTL so that a lost invalidation heals on its own.
type Cache struct {
	loader Loader
	ttl    time.Duration
}

func New(loader Loader) *Cache {
	ttl := 300
	if v, err := strconv.Atoi(env.GetEnv("ACCOUNT_CACHE_TTL", "300")); err == nil && v > 0 {
		ttl = v
	}
	return &Cache{loader: loader, ttl: time.Duration(ttl) * time.Second}
}

func key(accountID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, accountID)
}

// Get returns the cached snapshot for the account, loading and caching
// it on a miss. Cache failures fall through to the loader.
func (c *Cache) Get(accountID uint) (*models.Account, error) {
	raw, err := cache.Get(key(accountID))
	if err == nil {
		var acc models.Account
		if err := json.Unmarshal([]byte(raw), &acc); err == nil {
			return &acc, nil
		}
		// poisoned entry, drop it and reload
		_ = cache.Delete(key(accountID))
	} else if !errors.Is(err, redis.Nil) {
		log.Warnf("[AccountCache] read failed for account %d: %v", accountID, err)
	}

	acc, err := c.loader.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(acc); err == nil {
		if err := cache.Set(key(accountID), data, c.ttl); err != nil {
			log.Warnf("[AccountCache] write failed for account %d: %v", accountID, err)
		}
	}

	return acc, nil
}

// Invalidate drops the cached snapshot after a guarded write.
func (c *Cache) Invalidate(accountID uint) {
	if err := cache.Delete(key(accountID)); err != nil {
		log.Warnf("[AccountCache] invalidate failed for account %d: %v", accountID, err)
	}
}
