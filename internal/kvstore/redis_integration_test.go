//go:build integration

package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/2beens/elitefitness/pkg/testing"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx, rdb := testingpkg.GetRedisClientAndCtx(t)
	store := NewRedisStore(rdb)

	_, err := store.Get(ctx, "fitnessUsers")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "fitnessUsers", []byte(`[{"id":1}]`)))
	value, err := store.Get(ctx, "fitnessUsers")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(value))

	require.NoError(t, store.Set(ctx, "fitnessUsers", []byte(`[]`)))
	value, err = store.Get(ctx, "fitnessUsers")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, store.Delete(ctx, "fitnessUsers"))
	_, err = store.Get(ctx, "fitnessUsers")
	assert.ErrorIs(t, err, ErrNotFound)
}
