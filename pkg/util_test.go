package pkg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(35)
	require.NoError(t, err)
	s2, err := GenerateRandomString(35)
	require.NoError(t, err)

	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
}

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "fitness", BytesToString([]byte("fitness")))
	assert.Equal(t, "", BytesToString(nil))
}

func TestPathExists_AndEnsureDir(t *testing.T) {
	root := t.TempDir()
	photosDir := filepath.Join(root, "photos", "blobs")

	exists, err := PathExists(photosDir, true)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, EnsureDir(photosDir))
	exists, err = PathExists(photosDir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	// a dir is not a file
	exists, err = PathExists(photosDir, false)
	require.NoError(t, err)
	assert.False(t, exists)

	// idempotent
	require.NoError(t, EnsureDir(photosDir))
}
