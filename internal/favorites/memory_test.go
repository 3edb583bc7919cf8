package favorites_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3r1v3/Cryptifica/internal/favorites"
)

func TestMemoryStoreInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()

	for _, id := range []string{"bitcoin", "ethereum", "dogecoin"} {
		added, err := store.Add(ctx, 1, id)
		require.NoError(t, err)
		assert.True(t, added)
	}

	ids, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "ethereum", "dogecoin"}, ids)
}

func TestMemoryStoreIdempotence(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()

	added, err := store.Add(ctx, 1, "bitcoin")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Add(ctx, 1, "bitcoin")
	require.NoError(t, err)
	assert.False(t, added, "second add must be a no-op")

	ids, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin"}, ids)

	removed, err := store.Remove(ctx, 1, "bitcoin")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, 1, "bitcoin")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent id must be a no-op")

	ids, err = store.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStoreRemoveFromEmpty(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()

	removed, err := store.Remove(ctx, 99, "bitcoin")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryStoreUsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()

	_, err := store.Add(ctx, 1, "bitcoin")
	require.NoError(t, err)
	_, err = store.Add(ctx, 2, "ethereum")
	require.NoError(t, err)

	first, err := store.List(ctx, 1)
	require.NoError(t, err)
	second, err := store.List(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"bitcoin"}, first)
	assert.Equal(t, []string{"ethereum"}, second)
}

func TestMemoryStoreConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = store.Add(ctx, 7, fmt.Sprintf("asset-%d", n%10))
		}(i)
	}
	wg.Wait()

	ids, err := store.List(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, ids, 10, "duplicates must never be stored")
}
