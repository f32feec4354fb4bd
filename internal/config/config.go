package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	lerrors "csslesser/internal/errors"
)

const (
	PropertiesFile = "csslesser.properties"
	YAMLFile       = "csslesser.yaml"

	DefaultSourceDirectory = "src/main/less"
	DefaultOutputDirectory = "build/css"
	DefaultLessc           = "lessc"
)

// ResourceSet selects files from a directory with include/exclude globs
type ResourceSet struct {
	Name      string   `yaml:"name"`
	Directory string   `yaml:"directory"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
}

// Config holds the stylesheet build configuration
type Config struct {
	// Directory all relative paths are resolved against
	BaseDir string `yaml:"-"`

	SourceDirectory string        `yaml:"sourceDirectory"`
	OutputDirectory string        `yaml:"outputDirectory"`
	Resources       []ResourceSet `yaml:"resources"`

	PerformLessCompile     bool `yaml:"performLessCompile"`
	PerformCssCompress     bool `yaml:"performCssCompress"`
	PerformCssCommentStrip bool `yaml:"performCssCommentStrip"`
	PerformCssSingleLine   bool `yaml:"performCssSingleLine"`
	PerformCssInline       bool `yaml:"performCssInline"`
	PerformCssOptimize     bool `yaml:"performCssOptimize"`

	// Fail instead of inlining nothing when an @import target is missing
	FailOnMissingImport bool `yaml:"failOnMissingImport"`

	LesscPath string `yaml:"lesscPath"`
	// Extra lessc arguments placed before the input file
	LesscArgs []string `yaml:"lesscArgs"`
}

// Default returns the configuration used when no file is present
func Default(baseDir string) *Config {
	return &Config{
		BaseDir:                baseDir,
		SourceDirectory:        DefaultSourceDirectory,
		OutputDirectory:        DefaultOutputDirectory,
		PerformLessCompile:     true,
		PerformCssCompress:     true,
		PerformCssCommentStrip: true,
		PerformCssSingleLine:   true,
		PerformCssInline:       true,
		LesscPath:              DefaultLessc,
	}
}

// Exists checks whether a configuration file is present in dir
func Exists(dir string) bool {
	return ExistingFile(dir) != ""
}

// ExistingFile returns the name of the configuration file Load would read
// from dir, or "" when there is none
func ExistingFile(dir string) string {
	for _, name := range []string{YAMLFile, PropertiesFile} {
		if PropertiesFileExists(dir, name) {
			return name
		}
	}
	return ""
}

// Load reads csslesser.yaml or csslesser.properties from dir, falling back to defaults
func Load(dir string) (*Config, error) {
	if PropertiesFileExists(dir, YAMLFile) {
		return LoadYAML(dir)
	}
	if PropertiesFileExists(dir, PropertiesFile) {
		return LoadProperties(dir)
	}
	return Default(dir), nil
}

// LoadYAML loads configuration from csslesser.yaml
func LoadYAML(dir string) (*Config, error) {
	path := filepath.Join(dir, YAMLFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lerrors.IOFailure(path, err)
	}

	cfg := Default(dir)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, lerrors.Config(path, err)
	}
	cfg.BaseDir = dir
	return cfg, nil
}

// LoadProperties loads configuration from csslesser.properties
func LoadProperties(dir string) (*Config, error) {
	props, err := ParseProperties(filepath.Join(dir, PropertiesFile))
	if err != nil {
		return nil, err
	}

	cfg := Default(dir)
	cfg.SourceDirectory = props.GetWithDefault("sourceDirectory", cfg.SourceDirectory)
	cfg.OutputDirectory = props.GetWithDefault("outputDirectory", cfg.OutputDirectory)
	cfg.LesscPath = props.GetWithDefault("lesscPath", cfg.LesscPath)
	cfg.LesscArgs = strings.Fields(props.Get("lesscArgs"))
	cfg.PerformLessCompile = props.GetBool("performLessCompile", cfg.PerformLessCompile)
	cfg.PerformCssCompress = props.GetBool("performCssCompress", cfg.PerformCssCompress)
	cfg.PerformCssCommentStrip = props.GetBool("performCssCommentStrip", cfg.PerformCssCommentStrip)
	cfg.PerformCssSingleLine = props.GetBool("performCssSingleLine", cfg.PerformCssSingleLine)
	cfg.PerformCssInline = props.GetBool("performCssInline", cfg.PerformCssInline)
	cfg.PerformCssOptimize = props.GetBool("performCssOptimize", cfg.PerformCssOptimize)
	cfg.FailOnMissingImport = props.GetBool("failOnMissingImport", cfg.FailOnMissingImport)
	cfg.Resources = ParseResources(props)

	return cfg, nil
}

// ParseResources reads resource sets declared as
//
//	resources=main, vendor
//	resource.main.directory=src/main/less
//	resource.main.include=**/*.less
//	resource.main.exclude=**/_*.less
func ParseResources(props Properties) []ResourceSet {
	var sets []ResourceSet
	for _, name := range props.GetList("resources") {
		key := "resource." + name + "."
		sets = append(sets, ResourceSet{
			Name:      name,
			Directory: props.Get(key + "directory"),
			Include:   props.GetList(key + "include"),
			Exclude:   props.GetList(key + "exclude"),
		})
	}
	return sets
}

// Validate normalises paths and checks the configuration once before a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return lerrors.Config("baseDir", errors.New("must not be empty"))
	}
	if strings.TrimSpace(c.OutputDirectory) == "" {
		return lerrors.Config("outputDirectory", errors.New("must not be empty"))
	}
	if strings.TrimSpace(c.SourceDirectory) == "" {
		c.SourceDirectory = DefaultSourceDirectory
	}
	if c.LesscPath == "" {
		c.LesscPath = DefaultLessc
	}

	c.SourceDirectory = NormalizePath(c.SourceDirectory)
	c.OutputDirectory = NormalizePath(c.OutputDirectory)

	if len(c.Resources) == 0 {
		c.Resources = []ResourceSet{{Name: "default", Directory: c.SourceDirectory}}
	}

	output := c.OutputPath()
	for i := range c.Resources {
		set := &c.Resources[i]
		if set.Name == "" {
			set.Name = fmt.Sprintf("resource%d", i+1)
		}
		if strings.TrimSpace(set.Directory) == "" {
			set.Directory = c.SourceDirectory
		}
		set.Directory = NormalizePath(set.Directory)

		src := c.ResourcePath(*set)
		info, err := os.Stat(src)
		if err != nil {
			return lerrors.Config("resource."+set.Name+".directory", err)
		}
		if !info.IsDir() {
			return lerrors.Config("resource."+set.Name+".directory", fmt.Errorf("%s is not a directory", src))
		}
		if filepath.Clean(src) == filepath.Clean(output) {
			return lerrors.Config("outputDirectory", fmt.Errorf("output directory %s is the same as source directory", output))
		}
		if isWithin(src, output) {
			return lerrors.Config("outputDirectory", fmt.Errorf("output directory %s is inside source directory %s", output, src))
		}
		if isWithin(output, src) {
			return lerrors.Config("outputDirectory", fmt.Errorf("source directory %s is inside output directory %s", src, output))
		}
	}

	return nil
}

// isWithin reports whether path lies strictly below dir
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// OutputPath returns the absolute or base-relative output root
func (c *Config) OutputPath() string {
	return c.resolve(c.OutputDirectory)
}

// ResourcePath returns the directory a resource set is read from
func (c *Config) ResourcePath(set ResourceSet) string {
	return c.resolve(set.Directory)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// NormalizePath accepts both / and \ separators and converts to the OS separator
func NormalizePath(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}
