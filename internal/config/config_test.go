package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/staticonce/internal/checker"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(&LoadOptions{ProjectDir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, checker.DefaultOncePath, cfg.OncePath)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile())
}

func TestLoadProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\nonce_path: corp.example.com/once\n"), 0o644))

	cfg, err := Load(&LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, "corp.example.com/once", cfg.OncePath)
	assert.Equal(t, path, cfg.ConfigFile())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: false\n"), 0o644))

	t.Setenv("ONCECHECK_STRICT", "true")
	t.Setenv("ONCECHECK_VERBOSE", "true")

	cfg, err := Load(&LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Verbose)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectConfigFileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0o644))

	_, err := Load(&LoadOptions{ProjectDir: dir})
	assert.Error(t, err)
}

func TestWriteExample(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteExample(dir)
	require.NoError(t, err)

	cfg, err := Load(&LoadOptions{ProjectDir: dir})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile())
	assert.Equal(t, checker.DefaultOncePath, cfg.OncePath)

	// Refuses to clobber an existing file.
	_, err = WriteExample(dir)
	assert.Error(t, err)
}
