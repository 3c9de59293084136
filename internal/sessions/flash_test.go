package sessions

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/profilku/profilku/internal/models"
)

func exerciseFlashStore(t *testing.T, fs FlashStore) {
	ctx := context.Background()
	first := models.Toast{Title: "Berhasil", Description: "Anda telah keluar", Variant: models.VariantDefault}
	second := models.Toast{Title: "Error", Description: "boom", Variant: models.VariantDestructive}

	require.NoError(t, fs.Push(ctx, "sid", first))
	require.NoError(t, fs.Push(ctx, "sid", second))
	require.NoError(t, fs.Push(ctx, "sid"))

	got, err := fs.Pop(ctx, "sid")
	require.NoError(t, err)
	require.Equal(t, []models.Toast{first, second}, got)

	// delivered once
	again, err := fs.Pop(ctx, "sid")
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestRedisFlashStore(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	exerciseFlashStore(t, NewRedisFlashStore(redis.NewClient(&redis.Options{Addr: m.Addr()})))
}

func TestMemoryFlashStore(t *testing.T) {
	exerciseFlashStore(t, NewMemoryFlashStore())
}
