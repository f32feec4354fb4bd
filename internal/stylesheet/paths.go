package stylesheet

import (
	"path/filepath"
	"strings"
)

// MinimizePath returns path relative to base, using forward slashes
func MinimizePath(path, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	return NormalizeSlashes(rel), nil
}

// NormalizeSlashes converts both \ and the OS separator to /
func NormalizeSlashes(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), `\`, "/")
}
