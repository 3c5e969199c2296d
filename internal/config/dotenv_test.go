package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresComments(t *testing.T) {
	t.Setenv("LCA_A", "")
	t.Setenv("LCA_B", "")
	t.Setenv("LCA_C", "")

	path := writeDotEnv(t, `
# comment

LCA_A=one
export LCA_B=two
LCA_C="three"
`)

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "one", os.Getenv("LCA_A"))
	assert.Equal(t, "two", os.Getenv("LCA_B"))
	assert.Equal(t, "three", os.Getenv("LCA_C"))
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("LCA_KEEP", "already")

	require.NoError(t, loadDotEnv(writeDotEnv(t, "LCA_KEEP=fromfile\n")))

	assert.Equal(t, "already", os.Getenv("LCA_KEEP"))
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	t.Setenv("LCA_Q", "")

	require.NoError(t, loadDotEnv(writeDotEnv(t, "LCA_Q='hello world'\n")))

	assert.Equal(t, "hello world", os.Getenv("LCA_Q"))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
