package builder

import (
	"os"
	"path/filepath"
	"strings"
)

// Lister resolves the files of a resource set
type Lister interface {
	List(baseDir string, includes, excludes []string) ([]string, error)
}

// GlobLister lists files using *, ** and ? glob patterns. Excludes take
// precedence over includes and an empty include list selects every file.
type GlobLister struct{}

func (GlobLister) List(baseDir string, includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		includes = []string{"**"}
	}
	return ExpandIncludes(baseDir, includes, excludes)
}

// ExpandGlob expands a glob pattern relative to baseDir, supporting ** for
// recursive matching. Only regular files are returned.
func ExpandGlob(baseDir, pattern string) ([]string, error) {
	var results []string

	// Handle ** recursive glob
	if isRecursive(pattern) {
		startDir := filepath.Join(baseDir, filepath.FromSlash(staticPrefix(pattern)))
		if _, err := os.Stat(startDir); err != nil {
			return nil, nil
		}

		err := walkFiles(startDir, func(path string) {
			relPath, err := filepath.Rel(baseDir, path)
			if err != nil {
				return
			}
			if matchGlob(relPath, pattern) {
				results = append(results, relPath)
			}
		})
		return results, err
	}

	// Standard glob without **
	matches, err := filepath.Glob(filepath.Join(baseDir, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if info.IsDir() {
			// A directory includes all of its contents
			err := walkFiles(match, func(path string) {
				if rel, err := filepath.Rel(baseDir, path); err == nil {
					results = append(results, rel)
				}
			})
			if err != nil {
				return nil, err
			}
		} else if relPath, err := filepath.Rel(baseDir, match); err == nil {
			results = append(results, relPath)
		}
	}

	return results, nil
}

// walkFiles calls fn for every regular file below root in lexical order
func walkFiles(root string, fn func(path string)) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			fn(path)
		}
		return nil
	})
}

// containsGlobChars checks if a pattern contains glob special characters
func containsGlobChars(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// IsExcluded checks if a path matches any of the exclude patterns
func IsExcluded(path string, excludes []string) bool {
	for _, pattern := range excludes {
		if matchPattern(path, pattern) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a pattern (supports *, ? and **)
func matchPattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if isRecursive(pattern) {
		return matchGlob(path, pattern)
	}

	// Standard glob matching
	if matched, _ := filepath.Match(pattern, path); matched {
		return true
	}

	// A plain directory name excludes everything below it
	if !containsGlobChars(pattern) && strings.HasPrefix(path, strings.TrimSuffix(pattern, "/")+"/") {
		return true
	}

	// Patterns without a directory part match the filename anywhere
	if !strings.Contains(pattern, "/") {
		matched, _ := filepath.Match(pattern, baseName(path))
		return matched
	}
	return false
}

// isRecursive reports whether a pattern has a ** segment
func isRecursive(pattern string) bool {
	for _, seg := range splitSegments(pattern) {
		if seg == "**" {
			return true
		}
	}
	return false
}

// staticPrefix returns the leading segments of a pattern that hold no glob
// characters, so a walk can start below them
func staticPrefix(pattern string) string {
	var prefix []string
	for _, seg := range splitSegments(pattern) {
		if containsGlobChars(seg) {
			break
		}
		prefix = append(prefix, seg)
	}
	return strings.Join(prefix, "/")
}

// matchGlob matches a path against a pattern segment by segment. A ** segment
// consumes zero or more whole path segments, any other segment is matched
// with filepath.Match.
func matchGlob(path, pattern string) bool {
	return matchSegments(splitSegments(path), splitSegments(pattern))
}

func matchSegments(path, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for len(rest) > 0 && rest[0] == "**" {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				return true
			}
			for i := 0; i < len(path); i++ {
				if matchSegments(path[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(path) == 0 {
			return false
		}
		if matched, _ := filepath.Match(pattern[0], path[0]); !matched {
			return false
		}
		path, pattern = path[1:], pattern[1:]
	}
	return len(path) == 0
}

func splitSegments(p string) []string {
	p = strings.Trim(filepath.ToSlash(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func baseName(path string) string {
	if ix := strings.LastIndex(path, "/"); ix >= 0 {
		return path[ix+1:]
	}
	return path
}

// ExpandIncludes expands all include patterns and returns unique file paths
// in pattern order
func ExpandIncludes(baseDir string, includes []string, excludes []string) ([]string, error) {
	seen := make(map[string]bool)
	var results []string

	for _, pattern := range includes {
		expanded, err := ExpandGlob(baseDir, pattern)
		if err != nil {
			return nil, err
		}

		for _, path := range expanded {
			if IsExcluded(path, excludes) || seen[path] {
				continue
			}
			seen[path] = true
			results = append(results, path)
		}
	}

	return results, nil
}
