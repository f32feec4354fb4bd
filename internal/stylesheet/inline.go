package stylesheet

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"

	lerrors "csslesser/internal/errors"
)

// MissingPolicy controls what happens when an imported file cannot be found
type MissingPolicy int

const (
	// MissingSkip replaces the import with nothing
	MissingSkip MissingPolicy = iota
	// MissingFail aborts with a not-found error
	MissingFail
)

// Inliner replaces @import url(...); directives with the content of the
// imported files, recursively, rewriting relative urls along the way.
type Inliner struct {
	Source  FileSource
	Sink    FileSink
	Missing MissingPolicy
	Log     func(format string, args ...interface{})
}

// NewInliner creates an Inliner working on the local filesystem
func NewInliner() *Inliner {
	return &Inliner{
		Source: OSFileSystem{},
		Sink:   OSFileSystem{},
	}
}

// InlineFile resolves every import of the stylesheet at path and overwrites it
// with the merged result
func (in *Inliner) InlineFile(path string) error {
	if info, err := in.Source.Stat(path); err != nil || !info.Mode().IsRegular() {
		if in.Missing == MissingFail {
			return lerrors.NotFound(path)
		}
		return nil
	}
	result, err := in.Resolve(path, ".")
	if err != nil {
		return err
	}
	if err := in.Sink.WriteFile(path, []byte(result)); err != nil {
		return lerrors.IOFailure(path, err)
	}
	return nil
}

// Resolve returns the content of path with all imports inlined and every url
// rewritten against prefix. It performs no writes.
func (in *Inliner) Resolve(path, prefix string) (string, error) {
	return in.resolve(path, prefix, nil)
}

func (in *Inliner) resolve(path, prefix string, chain []string) (string, error) {
	key := canonicalPath(path)
	for _, visited := range chain {
		if visited == key {
			return "", lerrors.CircularImport(path, chain)
		}
	}
	chain = append(chain[:len(chain):len(chain)], key)

	info, err := in.Source.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err != nil && !isMissing(err) {
			return "", lerrors.IOFailure(path, err)
		}
		if in.Missing == MissingFail {
			return "", lerrors.NotFound(path)
		}
		return "", nil
	}

	data, err := in.Source.ReadFile(path)
	if err != nil {
		return "", lerrors.IOFailure(path, err)
	}

	dir := filepath.Dir(path)
	spliced, err := ImportPattern.ReplaceFunc(string(data), func(m Match) (string, error) {
		in.logf("   importing file: %s ...", m.Value)
		target := filepath.Join(dir, filepath.FromSlash(m.Value))
		return in.resolve(target, ChildPrefix(m.Value), chain)
	})
	if err != nil {
		return "", err
	}

	return RewriteURLs(spliced, prefix), nil
}

// ChildPrefix returns the directory part of an import reference, or "." when
// the reference has no directory
func ChildPrefix(ref string) string {
	if ix := strings.LastIndex(ref, "/"); ix > 0 {
		return ref[:ix]
	}
	return "."
}

// isMissing reports whether a stat error means the file is absent. A path
// running through a regular file (ENOTDIR) counts as absent.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (in *Inliner) logf(format string, args ...interface{}) {
	if in.Log != nil {
		in.Log(format, args...)
	}
}
