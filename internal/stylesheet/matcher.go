package stylesheet

import (
	"regexp"
	"strings"
)

// Pattern matches a directive made of an opening literal, an optionally quoted
// non-greedy value and a closing literal, e.g. url('x.png')
type Pattern struct {
	re *regexp.Regexp
}

// Match is a single directive occurrence
type Match struct {
	Text  string // full matched span
	Open  string // opening literal plus optional quote
	Value string // captured reference
	Close string // optional quote plus closing literal
	Start int
	End   int
}

var (
	ImportPattern = NewPattern("@import url(", ");")
	URLPattern    = NewPattern("url(", ")")
)

// NewPattern builds a case-sensitive directive pattern from its literal markers
func NewPattern(open, close string) *Pattern {
	expr := "(" + regexp.QuoteMeta(open) + `['"]?)(.*?)(['"]?` + regexp.QuoteMeta(close) + ")"
	return &Pattern{re: regexp.MustCompile(expr)}
}

// FindAll returns every match in document order
func (p *Pattern) FindAll(content string) []Match {
	indexes := p.re.FindAllStringSubmatchIndex(content, -1)
	matches := make([]Match, 0, len(indexes))
	for _, idx := range indexes {
		matches = append(matches, Match{
			Text:  content[idx[0]:idx[1]],
			Open:  content[idx[2]:idx[3]],
			Value: content[idx[4]:idx[5]],
			Close: content[idx[6]:idx[7]],
			Start: idx[0],
			End:   idx[1],
		})
	}
	return matches
}

// ReplaceFunc substitutes every match with the string returned by fn, keeping
// the text between and after matches verbatim. Replacements are literal.
func (p *Pattern) ReplaceFunc(content string, fn func(Match) (string, error)) (string, error) {
	var sb strings.Builder
	last := 0
	for _, m := range p.FindAll(content) {
		replacement, err := fn(m)
		if err != nil {
			return "", err
		}
		sb.WriteString(content[last:m.Start])
		sb.WriteString(replacement)
		last = m.End
	}
	sb.WriteString(content[last:])
	return sb.String(), nil
}

// Replace is ReplaceFunc for replacement functions that cannot fail
func (p *Pattern) Replace(content string, fn func(Match) string) string {
	result, _ := p.ReplaceFunc(content, func(m Match) (string, error) {
		return fn(m), nil
	})
	return result
}
