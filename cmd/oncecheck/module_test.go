package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGoMod(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte(content), 0o644))
}

func TestFindModuleRootWalksUp(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, "module example.com/app\n\ngo 1.24.0\n")

	nested := filepath.Join(root, "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := findModuleRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestReadModuleInfo(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, `module example.com/app

go 1.24.0

require (
	github.com/kolkov/staticonce v0.1.0
	golang.org/x/mod v0.30.0
)
`)

	info, err := readModuleInfo(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", info.Path)
	assert.Equal(t, root, info.Dir)
	assert.Equal(t, "1.24.0", info.GoVersion)
	assert.Equal(t, "v0.1.0", info.RuntimeVersion)
}

func TestReadModuleInfoWithoutRuntimeRequire(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, "module example.com/app\n\ngo 1.24.0\n")

	info, err := readModuleInfo(root)
	require.NoError(t, err)
	assert.Empty(t, info.RuntimeVersion)
}

func TestReadModuleInfoRejectsMalformed(t *testing.T) {
	root := t.TempDir()
	writeGoMod(t, root, "modul example.com/app\n")

	_, err := readModuleInfo(root)
	assert.Error(t, err)
}
