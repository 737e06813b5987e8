package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// runtimeModulePath is the module that ships the staticonce runtime.
const runtimeModulePath = "github.com/kolkov/staticonce"

// moduleInfo summarizes the go.mod of the module being scanned.
type moduleInfo struct {
	// Path is the module path.
	Path string

	// Dir is the module root directory.
	Dir string

	// GoVersion is the go directive value, if present.
	GoVersion string

	// RuntimeVersion is the required version of the staticonce module,
	// or "" when the module does not require it.
	RuntimeVersion string
}

// currentModule locates and parses the go.mod governing dir.
func currentModule(dir string) (*moduleInfo, error) {
	root, err := findModuleRoot(dir)
	if err != nil {
		return nil, err
	}
	return readModuleInfo(root)
}

// findModuleRoot walks up from dir until it finds a go.mod.
func findModuleRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(abs, "go.mod")); err == nil {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", errors.New("go.mod not found in " + dir + " or any parent directory")
		}
		abs = parent
	}
}

// readModuleInfo parses root/go.mod into a moduleInfo.
func readModuleInfo(root string) (*moduleInfo, error) {
	path := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%s has no module directive", path)
	}

	info := &moduleInfo{
		Path: f.Module.Mod.Path,
		Dir:  root,
	}
	if f.Go != nil {
		info.GoVersion = f.Go.Version
	}
	for _, req := range f.Require {
		if req.Mod.Path == runtimeModulePath {
			info.RuntimeVersion = req.Mod.Version
			break
		}
	}
	return info, nil
}
