package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netlens/netlens/pkg/metrics"
)

const (
	testNetFile = `NET_NAME
'SDA'
 NODE_NAME	U1 3
 NODE_NAME	R2 1
NET_NAME
'+3V3'
 NODE_NAME	R2 2
`
	testPartFile = `PART_NAME
 U1 'MCU':
  MFGR_PN='STM32F405';
PART_NAME
 R2 'RES10K':;
`
	testChipFile = `primitive 'RES10K';
 body
  VALUE='10k';
 end_body;
end_primitive;
`
)

// writeDesign lays out a .dsn with its companion triple and returns the
// design path.
func writeDesign(t *testing.T, dir string) string {
	t.Helper()
	for name, content := range map[string]string{
		"board.dsn":   "",
		"pstxnet.dat": testNetFile,
		"pstxprt.dat": testPartFile,
		"pstchip.dat": testChipFile,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return filepath.Join(dir, "board.dsn")
}

func TestDesignLoader_LoadAndCache(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	loader, err := NewDesignLoader(nil, 4, reg)
	require.NoError(t, err)
	defer loader.Close()

	design := writeDesign(t, t.TempDir())

	first, err := loader.Load(design)
	require.NoError(t, err)
	require.NotNil(t, first.Model)
	assert.Contains(t, first.Model.Nets, "SDA")

	second, err := loader.Load(design)
	require.NoError(t, err)
	assert.Same(t, first, second, "second load must come from the cache")

	assert.Equal(t, int64(1), loader.parses.Value())
	assert.Equal(t, int64(1), loader.cacheHits.Value())
}

func TestDesignLoader_UnknownPath(t *testing.T) {
	t.Parallel()

	loader, err := NewDesignLoader(nil, 4, nil)
	require.NoError(t, err)
	defer loader.Close()

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.SchDoc"))
	assert.Error(t, err)
}
