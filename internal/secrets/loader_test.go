package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "token")
	require.NoError(t, os.WriteFile(file, []byte("  from-file\n"), 0o600))
	t.Setenv("NURSE_MATCHER_TEST_TOKEN", " from-env ")

	got, err := Load(Source{Name: "token", File: file, Env: "NURSE_MATCHER_TEST_TOKEN", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", got)

	got, err = Load(Source{Name: "token", Env: "NURSE_MATCHER_TEST_TOKEN", Value: "inline"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	got, err = Load(Source{Name: "token", Env: "NURSE_MATCHER_UNSET_TOKEN", Value: " inline "})
	require.NoError(t, err)
	assert.Equal(t, "inline", got)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))

	_, err := Load(Source{Name: "gemini api key"})
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "gemini api key")

	_, err = Load(Source{File: empty})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = Load(Source{File: filepath.Join(dir, "missing")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigured(t *testing.T) {
	t.Setenv("NURSE_MATCHER_TEST_KEY", "abc")

	assert.False(t, Source{}.Configured())
	assert.False(t, Source{Env: "NURSE_MATCHER_UNSET_KEY"}.Configured())
	assert.True(t, Source{Env: "NURSE_MATCHER_TEST_KEY"}.Configured())
	assert.True(t, Source{Value: "x"}.Configured())
	assert.True(t, Source{File: "/run/secrets/key"}.Configured())
}
