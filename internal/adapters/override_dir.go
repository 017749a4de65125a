package adapters

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"bsp-config/internal/ports"
)

// OverrideDirAdapter discovers override files below a directory in lexical
// path order. Names starting with '_' are fragments meant to be included
// by other files and are not picked up on their own.
type OverrideDirAdapter struct{}

func NewOverrideDirAdapter() OverrideDirAdapter {
	return OverrideDirAdapter{}
}

func (a OverrideDirAdapter) FindOverrideFiles(root string) ([]string, error) {
	var paths []string
	if strings.TrimSpace(root) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directory is empty")
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldSkipOverrideDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isOverrideFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("override directory not found: " + root).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan override directory").
			WithCause(err)
	}
	return paths, nil
}

func shouldSkipOverrideDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "out", "output", "build":
		return true
	default:
		return false
	}
}

func isOverrideFile(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".config", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

var _ ports.OverrideDiscoveryPort = OverrideDirAdapter{}
