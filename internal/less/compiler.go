// Package less compiles LESS sources into CSS by delegating to an external compiler.
package less

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	lerrors "csslesser/internal/errors"
)

// Extension is the source extension handled by the compiler, compared case-insensitively
const Extension = ".less"

// Compiler turns the LESS file at inputPath into CSS written to outputPath
type Compiler interface {
	Compile(inputPath, outputPath string) error
}

// CompilerFunc adapts a function to the Compiler interface
type CompilerFunc func(inputPath, outputPath string) error

func (f CompilerFunc) Compile(inputPath, outputPath string) error {
	return f(inputPath, outputPath)
}

// Lessc runs the lessc command line compiler
type Lessc struct {
	// Path to the lessc executable, looked up in PATH when it has no separator
	Path string
	// Extra arguments passed before the input file, e.g. --include-path
	Args []string
}

// NewLessc creates a Lessc using the given executable, defaulting to "lessc"
func NewLessc(path string) *Lessc {
	if path == "" {
		path = "lessc"
	}
	return &Lessc{Path: path}
}

func (l *Lessc) Compile(inputPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return lerrors.IOFailure(outputPath, err)
	}

	args := append(append([]string{}, l.Args...), inputPath, outputPath)
	cmd := exec.Command(l.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = exitErr.Error()
			}
			return lerrors.CompileFailure(inputPath, errors.New(msg))
		}
		return lerrors.CompileFailure(inputPath, fmt.Errorf("failed to run %s: %w", l.Path, err))
	}
	return nil
}

// IsSource reports whether path names a LESS source file
func IsSource(path string) bool {
	return strings.HasSuffix(strings.ToUpper(path), strings.ToUpper(Extension))
}

// OutputPath returns the sibling .css path for a LESS source
func OutputPath(path string) string {
	return path[:len(path)-len(Extension)] + ".css"
}
