// Package errors defines the fatal error kinds raised while building stylesheets.
// Every error carries the path of the file being processed and the underlying cause.
package errors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindIO             Kind = "io"
	KindCompile        Kind = "compile"
	KindNotFound       Kind = "not-found"
	KindCircularImport Kind = "circular-import"
	KindConfig         Kind = "config"
)

// Error is a build failure tied to a file path
type Error struct {
	Kind  Kind
	Path  string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Cause)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func New(kind Kind, path string, cause error) error {
	return &Error{
		Kind:  kind,
		Path:  path,
		Cause: cause,
	}
}

// IOFailure reports a read, write or copy failure on path
func IOFailure(path string, cause error) error {
	return New(KindIO, path, cause)
}

// CompileFailure reports that a compiler or optimizer rejected path
func CompileFailure(path string, cause error) error {
	return New(KindCompile, path, cause)
}

// NotFound reports a missing file or import target
func NotFound(path string) error {
	return New(KindNotFound, path, errors.New("file does not exist or is not a regular file"))
}

// CircularImport reports an import chain that leads back to one of its own files
func CircularImport(path string, chain []string) error {
	return New(KindCircularImport, path, fmt.Errorf("import chain %v re-enters %s", chain, path))
}

func Config(key string, cause error) error {
	return New(KindConfig, key, cause)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsIO(err error) bool {
	return KindOf(err) == KindIO
}

func IsCompile(err error) bool {
	return KindOf(err) == KindCompile
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsCircularImport(err error) bool {
	return KindOf(err) == KindCircularImport
}

func IsConfig(err error) bool {
	return KindOf(err) == KindConfig
}
