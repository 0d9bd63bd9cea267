package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

func TestSetGetRoundtrip(t *testing.T) {
	c := New(Config{})

	type payload struct {
		Name  string
		Count int
	}

	require.NoError(t, Set(c, "k", payload{Name: "wget", Count: 7}))

	got, ok := Get[payload](c, "k")
	require.True(t, ok)
	assert.Equal(t, payload{Name: "wget", Count: 7}, got)
}

func TestGetAbsentKey(t *testing.T) {
	c := New(Config{})

	_, ok := Get[string](c, "missing")
	assert.False(t, ok)
}

func TestLazyExpiryOnRead(t *testing.T) {
	// No sweep runs here: the read itself must notice the expiry and remove
	// the entry.
	c := New(Config{CleanupInterval: time.Hour})

	require.NoError(t, Set(c, "k", "v", WithTTL(10*time.Millisecond)))
	time.Sleep(20 * time.Millisecond)

	_, ok := Get[string](c, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is removed on read, not just hidden")
}

func TestSetAppliesDefaultTTL(t *testing.T) {
	c := New(Config{DefaultTTL: 25 * time.Millisecond})

	require.NoError(t, Set(c, "k", "v"))
	_, ok := Get[string](c, "k")
	require.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = Get[string](c, "k")
	assert.False(t, ok)
}

func TestSetRejectsUnencodableValue(t *testing.T) {
	c := New(Config{})

	err := Set(c, "k", func() {})
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrSerialization)
	assert.Equal(t, 0, c.Len())
}

func TestGetDropsPoisonedEntry(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "not a number"))

	// Decoding a string entry into an int fails; the entry must be evicted
	// rather than returned half-typed.
	_, ok := Get[int](c, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestInvalidate(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "v"))

	assert.True(t, c.Invalidate("k"))
	assert.False(t, c.Invalidate("k"), "second invalidation reports absence")
}

func TestInvalidatePattern(t *testing.T) {
	seed := func() *Cache {
		c := New(Config{})
		for _, key := range []string{
			"search_formula_wget",
			"search_cask_firefox",
			"packages_formula",
			"package_formula_wget",
		} {
			require.NoError(t, Set(c, key, "v"))
		}
		return c
	}

	t.Run("substring", func(t *testing.T) {
		c := seed()
		assert.Equal(t, 2, c.InvalidatePattern("search_"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("glob prefix and suffix", func(t *testing.T) {
		c := seed()
		assert.Equal(t, 2, c.InvalidatePattern("*_wget"))
		_, ok := Get[string](c, "packages_formula")
		assert.True(t, ok)
	})

	t.Run("no match", func(t *testing.T) {
		c := seed()
		assert.Equal(t, 0, c.InvalidatePattern("nonexistent"))
		assert.Equal(t, 4, c.Len())
	})
}

func TestInvalidateByTags(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "a", "v", WithTags("packages", "kind:formula")))
	require.NoError(t, Set(c, "b", "v", WithTags("packages", "kind:cask")))
	require.NoError(t, Set(c, "c", "v", WithTags("search")))
	require.NoError(t, Set(c, "d", "v"))

	removed := c.InvalidateByTags("kind:cask")
	assert.Equal(t, 1, removed)

	// Only the tagged entry went; everything lacking the tag survives.
	_, ok := Get[string](c, "b")
	assert.False(t, ok)
	for _, key := range []string{"a", "c", "d"} {
		_, ok := Get[string](c, key)
		assert.True(t, ok, "entry %q must survive", key)
	}
}

func TestClearAndLen(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "a", 1))
	require.NoError(t, Set(c, "b", 2))
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestSweepExpired(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "old", "v", WithTTL(5*time.Millisecond)))
	require.NoError(t, Set(c, "fresh", "v", WithTTL(time.Hour)))

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, 1, c.SweepExpired())
	assert.Equal(t, 1, c.Len())
}

func TestEntryAge(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "v", WithTTL(time.Hour)))

	age, ttl, ok := c.EntryAge("k")
	require.True(t, ok)
	assert.Equal(t, time.Hour, ttl)
	assert.GreaterOrEqual(t, age, time.Duration(0))

	_, _, ok = c.EntryAge("missing")
	assert.False(t, ok)

	// EntryAge must not count as a hit.
	s := c.Stats()
	assert.Equal(t, uint64(0), s.TotalAccessCount)
}

func TestAccessMetadataInvariants(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "v"))

	for i := 0; i < 3; i++ {
		_, ok := Get[string](c, "k")
		require.True(t, ok)
	}

	c.mu.RLock()
	e := c.entries["k"]
	c.mu.RUnlock()

	assert.Equal(t, uint64(3), e.AccessCount)
	assert.False(t, e.LastAccessed.Before(e.CreatedAt), "last access never precedes creation")
}

func TestStats(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "a", "v"))
	require.NoError(t, Set(c, "b", "v", WithTTL(time.Millisecond)))

	time.Sleep(10 * time.Millisecond)

	Get[string](c, "a")
	Get[string](c, "a")
	Get[string](c, "missing")

	s := c.Stats()
	assert.Equal(t, 2, s.EntryCount, "expired entry stays until read or swept")
	assert.Equal(t, 1, s.ExpiredCount)
	assert.Equal(t, uint64(2), s.TotalAccessCount)
	assert.InDelta(t, 2.0/3.0, s.HitRate, 0.01)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(Config{MaxEntries: 64})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("key_%d_%d", n, j%10)
				_ = Set(c, key, j)
				Get[int](c, key)
				if j%7 == 0 {
					c.InvalidatePattern(fmt.Sprintf("key_%d_", n))
				}
			}
		}(i)
	}
	wg.Wait()

	// The store survived arbitrary interleaving; exact contents are racy by
	// design.
	assert.LessOrEqual(t, c.Len(), 80)
}

func TestRefreshOverwritesInBackground(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "stale"))

	Refresh(c, "k", func() (string, error) {
		return "fresh", nil
	})
	c.Close()

	got, ok := Get[string](c, "k")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
}

func TestRefreshFailureLeavesEntryAlone(t *testing.T) {
	c := New(Config{})
	require.NoError(t, Set(c, "k", "stale"))

	Refresh(c, "k", func() (string, error) {
		return "", errdefs.Networkf("catalog unreachable")
	})
	c.Close()

	got, ok := Get[string](c, "k")
	require.True(t, ok)
	assert.Equal(t, "stale", got, "failed refresh never clobbers the cached value")
}
