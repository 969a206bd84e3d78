package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetReturnsStoredValue(t *testing.T) {
	s := NewStore()
	s.Set("k", "value", time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestStoreGetMissingKey(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestStoreExpiredEntryIsAbsentAndEvicted(t *testing.T) {
	s := NewStore()
	s.Set("k", "value", 10*time.Millisecond)
	require.Equal(t, 1, s.Len())

	time.Sleep(20 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "expired entry should be evicted on access")
}

func TestStoreEvictionIsLazy(t *testing.T) {
	s := NewStore()
	s.Set("k", "value", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	// No access yet, so the expired entry is still in the map.
	assert.Equal(t, 1, s.Len())
}

func TestStoreSetReplacesEntry(t *testing.T) {
	s := NewStore()
	s.Set("k", "old", time.Minute)
	s.Set("k", "new", time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Set(fmt.Sprintf("key-%d", n%10), n, time.Minute)
		}(i)
		go func(n int) {
			defer wg.Done()
			s.Get(fmt.Sprintf("key-%d", n%10))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}
