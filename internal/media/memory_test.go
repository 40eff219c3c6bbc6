package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUploadDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	result, err := store.Upload(ctx, "photo.jpg", "image/jpeg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Key)
	assert.Equal(t, "memory://"+result.Key, result.URL)
	assert.True(t, store.Has(result.Key))

	require.NoError(t, store.Delete(ctx, result.Key))
	assert.False(t, store.Has(result.Key))

	// Unknown keys delete cleanly.
	require.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestMemoryStoreDistinctKeys(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Upload(ctx, "a.jpg", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Upload(ctx, "a.jpg", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
}
