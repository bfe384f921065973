package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	require.NoError(t, kv.SetWithTTL(ctx, "k1", []byte("v1"), time.Minute))

	value, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })

	_, err := kv.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	require.NoError(t, kv.SetWithTTL(ctx, "k1", []byte("v1"), 30*time.Millisecond))

	time.Sleep(60 * time.Millisecond)
	_, err := kv.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreSetResetsExpiry(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	require.NoError(t, kv.SetWithTTL(ctx, "k1", []byte("v1"), 80*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, kv.SetWithTTL(ctx, "k1", []byte("v2"), 80*time.Millisecond))
	time.Sleep(50 * time.Millisecond)

	value, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	require.NoError(t, kv.SetWithTTL(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, kv.Delete(ctx, "k1"))
	require.NoError(t, kv.Delete(ctx, "k1"))

	_, err := kv.Get(ctx, "k1")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	kv := NewMemoryKVStore()
	t.Cleanup(func() { _ = kv.Close() })
	ctx := context.Background()

	original := []byte("v1")
	require.NoError(t, kv.SetWithTTL(ctx, "k1", original, time.Minute))
	original[0] = 'x'

	value, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// Mutating the returned slice must not affect the stored record
	value[0] = 'y'
	again, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), again)
}
