package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// runConformance exercises the Store contract from spec §4.3 against any
// backend, mirroring the teacher's storage/conformance shared-suite pattern.
func runConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent returns not found", func(t *testing.T) {
		_, ok, err := store.Get(ctx, CategorySession, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get round trips", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, CategoryOAuth2CSRF, "id-1", []byte("value-1"), time.Minute))
		v, ok, err := store.Get(ctx, CategoryOAuth2CSRF, "id-1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("value-1"), v)
	})

	t.Run("categories do not collide", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, CategoryOAuth2PKCE, "same-id", []byte("pkce"), time.Minute))
		require.NoError(t, store.Put(ctx, CategoryOAuth2Nonce, "same-id", []byte("nonce"), time.Minute))

		v, ok, err := store.Get(ctx, CategoryOAuth2PKCE, "same-id")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("pkce"), v)

		v, ok, err = store.Get(ctx, CategoryOAuth2Nonce, "same-id")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("nonce"), v)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, CategoryMiscSession, "id-2", []byte("v1"), time.Minute))
		require.NoError(t, store.Put(ctx, CategoryMiscSession, "id-2", []byte("v2"), time.Minute))
		v, ok, err := store.Get(ctx, CategoryMiscSession, "id-2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), v)
	})

	t.Run("expired entries are absent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, CategoryAuthChallenge, "id-3", []byte("v"), 10*time.Millisecond))
		// Wait out the TTL plus the 5 s clock-skew allowance of the Store contract.
		time.Sleep(5*time.Second + 20*time.Millisecond)
		_, ok, err := store.Get(ctx, CategoryAuthChallenge, "id-3")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, CategoryRegiChallenge, "id-4", []byte("v"), time.Minute))
		require.NoError(t, store.Remove(ctx, CategoryRegiChallenge, "id-4"))
		require.NoError(t, store.Remove(ctx, CategoryRegiChallenge, "id-4"))
		_, ok, err := store.Get(ctx, CategoryRegiChallenge, "id-4")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStoreConformance(t *testing.T) {
	runConformance(t, NewMemory(log.Nop()))
}
