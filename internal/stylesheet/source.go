package stylesheet

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSource provides stylesheet contents to the import resolver
type FileSource interface {
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// FileSink persists transformed stylesheets
type FileSink interface {
	WriteFile(path string, data []byte) error
}

// OSFileSystem reads and writes the local filesystem
type OSFileSystem struct{}

func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// FSSource adapts an fs.FS (embed.FS, fstest.MapFS, os.DirFS) to a FileSource.
// Paths are converted to slash form before lookup.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(s.FS, filepath.ToSlash(filepath.Clean(path)))
}

func (s FSSource) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(s.FS, filepath.ToSlash(filepath.Clean(path)))
}
