package stylesheet

import (
	"os"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"

	lerrors "csslesser/internal/errors"
)

const cssMediaType = "text/css"

// Optimizer runs a token-aware minification pass after the lexical Minifier.
// It shortens colors, numbers and units and drops redundant semicolons.
type Optimizer struct {
	m *minify.M
}

func NewOptimizer() *Optimizer {
	m := minify.New()
	m.AddFunc(cssMediaType, css.Minify)
	return &Optimizer{m: m}
}

func (o *Optimizer) Optimize(source string) (string, error) {
	return o.m.String(cssMediaType, source)
}

// OptimizeFile optimizes the stylesheet at path in place
func (o *Optimizer) OptimizeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return lerrors.IOFailure(path, err)
	}
	result, err := o.Optimize(string(content))
	if err != nil {
		return lerrors.CompileFailure(path, err)
	}
	if err := os.WriteFile(path, []byte(result), 0644); err != nil {
		return lerrors.IOFailure(path, err)
	}
	return nil
}
