package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRotatingWriter(t *testing.T) {
	dir := t.TempDir()

	w := newRotatingWriter(LoggerSetupParams{LogFileName: filepath.Join(dir, "service")})
	assert.Equal(t, filepath.Join(dir, "service.log"), w.Filename)
	assert.Equal(t, defaultMaxSizeMB, w.MaxSize)
	assert.Zero(t, w.MaxBackups)
	assert.Zero(t, w.MaxAge)
	assert.True(t, w.Compress)

	w = newRotatingWriter(LoggerSetupParams{
		LogFileName: filepath.Join(dir, "service.log"),
		MaxSizeMB:   10,
		MaxBackups:  5,
		MaxAgeDays:  30,
	})
	assert.Equal(t, filepath.Join(dir, "service.log"), w.Filename)
	assert.Equal(t, 10, w.MaxSize)
	assert.Equal(t, 5, w.MaxBackups)
	assert.Equal(t, 30, w.MaxAge)
}
