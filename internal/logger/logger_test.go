package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWritesStructuredLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "skilltrail.log")
	log, err := NewFile(path, "prod")
	require.NoError(t, err)

	log.With("roadmap_id", "r1").Info("progress saved", "skills", 3)
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"progress saved"`)
	assert.Contains(t, out, `"roadmap_id":"r1"`)
	assert.Contains(t, out, `"skills":3`)
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Warn("dropped", "k", "v") })

	real := Nop()
	assert.Same(t, real, OrNop(real))
}
