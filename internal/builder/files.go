package builder

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	lerrors "csslesser/internal/errors"
)

// CopyFile copies a file from src to dst, creating parent directories
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return lerrors.IOFailure(dst, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return lerrors.NotFound(src)
		}
		return lerrors.IOFailure(src, err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return lerrors.IOFailure(dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return lerrors.IOFailure(dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return lerrors.IOFailure(dst, err)
	}
	return nil
}

// FindStylesheets returns every .css file below dir in lexical order
func FindStylesheets(dir string) ([]string, error) {
	var files []string
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return files, nil
	}
	err := walkFiles(dir, func(path string) {
		if strings.HasSuffix(path, ".css") {
			files = append(files, path)
		}
	})
	if err != nil {
		return nil, lerrors.IOFailure(dir, err)
	}
	return files, nil
}
