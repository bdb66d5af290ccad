package rtconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), opts)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.toml")
	contents := "trace = true\nbuild_parse_tree = false\ndefault_channel = 2\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	opts, err := Load(path)

	require.NoError(t, err)
	assert.True(t, opts.Trace)
	assert.False(t, opts.BuildParseTree)
	assert.Equal(t, 2, opts.DefaultChannel)
	// untouched fields keep their default value
	assert.Equal(t, Defaults().HiddenChannel, opts.HiddenChannel)
}

func TestLoad_InvalidTOMLReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid = = toml"), 0644))

	_, err := Load(path)

	assert.Error(t, err)
}
