package stylesheet

import "strings"

// IsAbsolute reports whether a url reference is rooted and must not be prefixed
func IsAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "/")
}

// RewriteURLs rewrites every url(...) reference so that relative targets are
// resolved against prefix. Quotes are normalised to single quotes.
func RewriteURLs(css, prefix string) string {
	return URLPattern.Replace(css, func(m Match) string {
		ref := m.Value
		if !IsAbsolute(ref) {
			ref = prefix + "/" + ref
		}
		return "url('" + ref + "')"
	})
}
