package config_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/adapters/config"
)

func TestMapFSAdapter(t *testing.T) {
	fsys := config.NewMapFSAdapter("/work", fstest.MapFS{
		"a/.vimasm.yaml": {Data: []byte("format: raw\n")},
	})

	data, err := fsys.ReadFile("/work/a/.vimasm.yaml")
	require.NoError(t, err)
	assert.Equal(t, "format: raw\n", string(data))

	info, err := fsys.Stat("/work/a")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	info, err = fsys.Stat("/work")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = fsys.Stat("/elsewhere/a/.vimasm.yaml")
	require.Error(t, err)

	_, err = fsys.ReadFile("/workspace/a/.vimasm.yaml")
	require.Error(t, err)
}
