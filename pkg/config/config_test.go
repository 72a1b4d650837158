package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c1, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c1)

	c1.Party = "Republican"
	c1.Elections = []string{"SEN18", "GOV18"}
	c1.Margin = 0.05
	require.NoError(t, Save(path, c1))

	c2, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestReadOrCreate_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("party: Green\n"), fileMode))

	c, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "Green", c.Party)
	assert.Equal(t, DefaultMargin, c.Margin)
	assert.Equal(t, DefaultCacheSize, c.CacheSize)
}

func TestReadOrCreate_Invalid(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("margin: 0.9\n"), fileMode))
	_, err = ReadOrCreate(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("margin: [\n"), fileMode))
	_, err = ReadOrCreate(path)
	assert.Error(t, err)
}

func TestSave_Invalid(t *testing.T) {
	assert.Error(t, Save("", Default()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), FileName), nil))
}
