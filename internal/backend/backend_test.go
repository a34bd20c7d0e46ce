package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/elitefitness/internal/config"
	"github.com/2beens/elitefitness/internal/kvstore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, OpenParams{
		Config: &config.Config{Storage: config.StorageMemory},
	})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.MemoryStore{}, b.Store)
	assert.Nil(t, b.Redis)
	assert.Nil(t, b.DBPool)
	assert.Empty(t, b.Collectors())
	require.NoError(t, b.Close())

	b, err = Open(ctx, OpenParams{
		Config: &config.Config{Storage: config.StorageMemory, CacheSizeMB: 1},
	})
	require.NoError(t, err)
	assert.IsType(t, &kvstore.CachedStore{}, b.Store)

	require.NoError(t, b.Store.Set(ctx, "k", []byte("v")))
	v, err := b.Store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))
	require.NoError(t, b.Close())
}

func TestOpen_UnknownStorage(t *testing.T) {
	_, err := Open(context.Background(), OpenParams{
		Config: &config.Config{Storage: "floppy"},
	})
	assert.Error(t, err)
}
