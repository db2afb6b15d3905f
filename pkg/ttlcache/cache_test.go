package ttlcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("user:1", "alice")
	v, ok := c.Get("user:1")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	_, ok = c.Get("user:2")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(time.Minute, func() time.Time { return now })

	c.Set("key", 123)

	// Ровно на границе TTL запись ещё жива
	now = now.Add(time.Minute)
	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, 123, v)

	// После границы — протухла и удаляется лениво
	now = now.Add(time.Second)
	_, ok = c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetRefreshesTTL(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(time.Minute, func() time.Time { return now })

	c.Set("key", "old")
	now = now.Add(50 * time.Second)
	c.Set("key", "new")

	now = now.Add(30 * time.Second)
	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)

	c.Set("key", "value")
	c.Delete("key")

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Len(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	c := NewWithClock(time.Minute, func() time.Time { return now })

	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())

	// Len учитывает и протухшие записи до ленивой очистки
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, c.Len())

	c.Get("a")
	assert.Equal(t, 1, c.Len())
}
