package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionEntry is a validated session held in memory.
type SessionEntry struct {
	UserID     uuid.UUID
	ExpiryTime time.Time
}

// SessionCache provides thread-safe caching of validated session hashes
type SessionCache struct {
	cache map[string]SessionEntry
	mutex sync.RWMutex
	now   func() time.Time
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		cache: make(map[string]SessionEntry),
		now:   time.Now,
	}
}

// Get returns the user for tokenHash if the entry has not expired
func (c *SessionCache) Get(tokenHash string) (uuid.UUID, bool) {
	c.mutex.RLock()
	entry, found := c.cache[tokenHash]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.UserID, true
	}

	return uuid.Nil, false
}

func (c *SessionCache) Set(tokenHash string, userID uuid.UUID, expiry time.Time) {
	c.mutex.Lock()
	c.cache[tokenHash] = SessionEntry{
		UserID:     userID,
		ExpiryTime: expiry,
	}
	c.mutex.Unlock()
}

func (c *SessionCache) Delete(tokenHash string) {
	c.mutex.Lock()
	delete(c.cache, tokenHash)
	c.mutex.Unlock()
}

// Clear removes expired entries and reports how many were dropped
func (c *SessionCache) Clear() int {
	now := c.now()
	removed := 0

	c.mutex.Lock()
	for key, entry := range c.cache {
		if !now.Before(entry.ExpiryTime) {
			delete(c.cache, key)
			removed++
		}
	}
	c.mutex.Unlock()

	return removed
}
