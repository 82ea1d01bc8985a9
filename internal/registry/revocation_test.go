package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore_RevokeAndCheck(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a"))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationStore_Idempotent(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a"))
	require.NoError(t, store.Revoke(ctx, "token-a"))

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryRevocationStore_Concurrent(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			_ = store.Revoke(ctx, token)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.IsRevoked(ctx, token)
		}()
	}
	wg.Wait()

	// No lost updates: every revoked token is a member.
	for i := 0; i < 50; i++ {
		revoked, err := store.IsRevoked(ctx, fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked)
	}
}
