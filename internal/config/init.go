package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteProperties writes a commented csslesser.properties with default stage
// settings and the given directories
func WriteProperties(dir, sourceDirectory, outputDirectory string) error {
	content := fmt.Sprintf(`# csslesser configuration
# Generated by csslesser init

sourceDirectory=%s
outputDirectory=%s

# Stages, always run in this order: copy, less, compress, inline
performLessCompile=true
performCssCompress=true
performCssCommentStrip=true
performCssSingleLine=true
performCssInline=true
performCssOptimize=false

# Fail when an @import target does not exist instead of dropping the import
failOnMissingImport=false

lesscPath=%s
# Extra lessc arguments, separated by spaces
# lesscArgs=--include-path=%s

# Optional resource sets (defaults to the whole source directory)
# resources=main
# resource.main.directory=%s
# resource.main.include=**/*.less, **/*.css
# resource.main.exclude=**/_*.less
`, sourceDirectory, outputDirectory, DefaultLessc, sourceDirectory, sourceDirectory)

	return os.WriteFile(filepath.Join(dir, PropertiesFile), []byte(content), 0644)
}
