package stylesheet

import (
	"os"
	"regexp"

	lerrors "csslesser/internal/errors"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	commentRe    = regexp.MustCompile(`/\*([^*]|\*+[^*/])*\*+/`)
	lineBreakRe  = regexp.MustCompile(`[\r\n]`)

	spacingPatterns = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{whitespaceRe, " "},
		{regexp.MustCompile(`\s*\{\s*`), "{"},
		{regexp.MustCompile(`\s*\}\s*`), "} "},
	}
)

// Minifier is a purely lexical CSS compressor
type Minifier struct {
	StripComments bool
	SingleLine    bool
}

// Minify collapses whitespace, tightens braces and optionally removes comments
// and line breaks
func (m Minifier) Minify(source string) string {
	result := collapseSpacing(source)

	if m.StripComments {
		result = StripComments(result)
		// removed comments can leave doubled spaces behind
		result = collapseSpacing(result)
	}

	if m.SingleLine {
		result = lineBreakRe.ReplaceAllString(result, "")
	}

	return result
}

// MinifyFile minifies the stylesheet at path in place
func (m Minifier) MinifyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return lerrors.IOFailure(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return lerrors.IOFailure(path, err)
	}
	if err := os.WriteFile(path, []byte(m.Minify(string(content))), info.Mode().Perm()); err != nil {
		return lerrors.IOFailure(path, err)
	}
	return nil
}

// StripComments removes /* ... */ blocks, tolerating nested openers
func StripComments(source string) string {
	return commentRe.ReplaceAllLiteralString(source, "")
}

func collapseSpacing(source string) string {
	result := source
	for _, p := range spacingPatterns {
		result = p.re.ReplaceAllLiteralString(result, p.repl)
	}
	return result
}
