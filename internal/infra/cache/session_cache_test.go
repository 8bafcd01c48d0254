package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionCache_GetRespectsExpiry(t *testing.T) {
	c := NewSessionCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	userID := uuid.New()

	c.Set("hash", userID, now.Add(time.Minute))

	got, ok := c.Get("hash")
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("hash")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Clear())
}

func TestSessionCache_Delete(t *testing.T) {
	c := NewSessionCache()
	c.Set("hash", uuid.New(), time.Now().Add(time.Hour))

	c.Delete("hash")

	_, ok := c.Get("hash")
	assert.False(t, ok)
}
