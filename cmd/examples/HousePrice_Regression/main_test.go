package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseprice/pkg/data"
)

func TestWriteDataset(t *testing.T) {
	ds, err := data.Materialize(20, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, writeDataset(path, ds))
	back, err := data.LoadCSV(path, data.AmesSchema())
	require.NoError(t, err)
	assert.Equal(t, 20, back.Len())

	assert.Error(t, writeDataset(t.TempDir(), ds), "a directory is not writable as a file")
}

func TestRunCmd_MalformedEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOUSEPRICE_PROP", "0,8")
	cmd := newRunCmd()
	cmd.SetArgs([]string{"--out", t.TempDir()})
	assert.ErrorContains(t, cmd.Execute(), "HOUSEPRICE_PROP")
}
