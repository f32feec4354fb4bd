package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	lerrors "csslesser/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default("/project")

	if cfg.SourceDirectory != "src/main/less" {
		t.Errorf("SourceDirectory = %q, want %q", cfg.SourceDirectory, "src/main/less")
	}
	if !cfg.PerformLessCompile || !cfg.PerformCssCompress || !cfg.PerformCssCommentStrip ||
		!cfg.PerformCssSingleLine || !cfg.PerformCssInline {
		t.Errorf("stages should be enabled by default: %+v", cfg)
	}
	if cfg.PerformCssOptimize || cfg.FailOnMissingImport {
		t.Errorf("optimize and failOnMissingImport should be off by default: %+v", cfg)
	}
	if cfg.LesscPath != "lessc" {
		t.Errorf("LesscPath = %q, want lessc", cfg.LesscPath)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Fatal("Exists() = true for empty directory")
	}
	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BaseDir != tmpDir || cfg.OutputDirectory != DefaultOutputDirectory {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadProperties(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, PropertiesFile), `sourceDirectory=web\less
outputDirectory=target/site/css
performLessCompile=false
performCssCommentStrip=no
performCssOptimize=true
failOnMissingImport=yes
lesscArgs=--include-path=web/lib   --strict-math=on
resources=main, vendor
resource.main.directory=web/less
resource.main.include=**/*.less
resource.main.exclude=**/_*.less, legacy/*
resource.vendor.directory=web/vendor
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.SourceDirectory != `web\less` {
		t.Errorf("SourceDirectory = %q", cfg.SourceDirectory)
	}
	if cfg.OutputDirectory != "target/site/css" {
		t.Errorf("OutputDirectory = %q", cfg.OutputDirectory)
	}
	if cfg.PerformLessCompile {
		t.Error("PerformLessCompile = true, want false")
	}
	if cfg.PerformCssCommentStrip {
		t.Error("PerformCssCommentStrip = true, want false")
	}
	if !cfg.PerformCssCompress || !cfg.PerformCssInline {
		t.Error("unset stages should keep their defaults")
	}
	if !cfg.PerformCssOptimize || !cfg.FailOnMissingImport {
		t.Error("PerformCssOptimize and FailOnMissingImport should be true")
	}

	if !reflect.DeepEqual(cfg.LesscArgs, []string{"--include-path=web/lib", "--strict-math=on"}) {
		t.Errorf("LesscArgs = %q", cfg.LesscArgs)
	}

	if len(cfg.Resources) != 2 {
		t.Fatalf("Resources = %d, want 2", len(cfg.Resources))
	}
	main := cfg.Resources[0]
	if main.Name != "main" || main.Directory != "web/less" {
		t.Errorf("main resource = %+v", main)
	}
	if len(main.Include) != 1 || len(main.Exclude) != 2 {
		t.Errorf("main include/exclude = %v / %v", main.Include, main.Exclude)
	}
	if cfg.Resources[1].Directory != "web/vendor" || len(cfg.Resources[1].Include) != 0 {
		t.Errorf("vendor resource = %+v", cfg.Resources[1])
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, YAMLFile), `sourceDirectory: assets/less
outputDirectory: public/css
performCssSingleLine: false
lesscPath: node_modules/.bin/lessc
lesscArgs: ["--include-path=assets/lib"]
resources:
  - name: site
    directory: assets/less
    include: ["**/*.less", "**/*.css"]
    exclude: ["**/_*.less"]
`)
	// yaml wins when both are present
	writeFile(t, filepath.Join(tmpDir, PropertiesFile), "outputDirectory=ignored\n")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.OutputDirectory != "public/css" {
		t.Errorf("OutputDirectory = %q, want public/css", cfg.OutputDirectory)
	}
	if cfg.PerformCssSingleLine {
		t.Error("PerformCssSingleLine = true, want false")
	}
	if !cfg.PerformLessCompile {
		t.Error("PerformLessCompile should keep its default")
	}
	if cfg.LesscPath != "node_modules/.bin/lessc" {
		t.Errorf("LesscPath = %q", cfg.LesscPath)
	}
	if len(cfg.LesscArgs) != 1 || cfg.LesscArgs[0] != "--include-path=assets/lib" {
		t.Errorf("LesscArgs = %q", cfg.LesscArgs)
	}
	if len(cfg.Resources) != 1 || len(cfg.Resources[0].Include) != 2 {
		t.Errorf("Resources = %+v", cfg.Resources)
	}
	if cfg.BaseDir != tmpDir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, tmpDir)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, YAMLFile), "resources: [unclosed\n")

	_, err := Load(tmpDir)
	if !lerrors.IsConfig(err) {
		t.Errorf("Load error = %v, want config error", err)
	}
}

func TestExistingFile(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected string
	}{
		{"none", nil, ""},
		{"properties", []string{PropertiesFile}, PropertiesFile},
		{"yaml", []string{YAMLFile}, YAMLFile},
		{"both prefers yaml", []string{PropertiesFile, YAMLFile}, YAMLFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(tmpDir, f), "")
			}
			if got := ExistingFile(tmpDir); got != tt.expected {
				t.Errorf("ExistingFile() = %q, want %q", got, tt.expected)
			}
			if Exists(tmpDir) != (tt.expected != "") {
				t.Errorf("Exists() = %v", Exists(tmpDir))
			}
		})
	}
}

func TestLoadYAMLReadFailure(t *testing.T) {
	_, err := LoadYAML(t.TempDir())
	if !lerrors.IsIO(err) {
		t.Errorf("LoadYAML error = %v, want io error", err)
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "src", "main", "less"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, "file.txt"), "x")

	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
			validate: func(t *testing.T, c *Config) {
				if len(c.Resources) != 1 || c.Resources[0].Name != "default" {
					t.Errorf("Resources = %+v, want default set", c.Resources)
				}
				if c.ResourcePath(c.Resources[0]) != filepath.Join(tmpDir, "src", "main", "less") {
					t.Errorf("ResourcePath = %q", c.ResourcePath(c.Resources[0]))
				}
				if c.OutputPath() != filepath.Join(tmpDir, "build", "css") {
					t.Errorf("OutputPath = %q", c.OutputPath())
				}
			},
		},
		{
			name:   "backslash directories",
			modify: func(c *Config) { c.SourceDirectory = `src\main\less` },
			validate: func(t *testing.T, c *Config) {
				if c.SourceDirectory != filepath.FromSlash("src/main/less") {
					t.Errorf("SourceDirectory = %q", c.SourceDirectory)
				}
			},
		},
		{
			name:   "unnamed resource gets a name and the source directory",
			modify: func(c *Config) { c.Resources = []ResourceSet{{Include: []string{"*.less"}}} },
			validate: func(t *testing.T, c *Config) {
				if c.Resources[0].Name != "resource1" {
					t.Errorf("Name = %q", c.Resources[0].Name)
				}
				if c.Resources[0].Directory != filepath.FromSlash("src/main/less") {
					t.Errorf("Directory = %q", c.Resources[0].Directory)
				}
			},
		},
		{
			name:        "missing source directory",
			modify:      func(c *Config) { c.SourceDirectory = "nope" },
			expectError: true,
		},
		{
			name:        "source is a file",
			modify:      func(c *Config) { c.SourceDirectory = "file.txt" },
			expectError: true,
		},
		{
			name:        "output equals source",
			modify:      func(c *Config) { c.OutputDirectory = "src/main/less" },
			expectError: true,
		},
		{
			name:        "output inside source",
			modify:      func(c *Config) { c.OutputDirectory = "src/main/less/build" },
			expectError: true,
		},
		{
			name:        "source inside output",
			modify:      func(c *Config) { c.OutputDirectory = "src" },
			expectError: true,
		},
		{
			name:        "source is the base directory",
			modify:      func(c *Config) { c.SourceDirectory = "." },
			expectError: true,
		},
		{
			name:   "sibling directory with a common prefix",
			modify: func(c *Config) { c.OutputDirectory = "src/main/less-out" },
		},
		{
			name:        "empty output",
			modify:      func(c *Config) { c.OutputDirectory = " " },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(tmpDir)
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.expectError {
				if !lerrors.IsConfig(err) {
					t.Errorf("Validate error = %v, want config error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestWriteProperties(t *testing.T) {
	tmpDir := t.TempDir()
	if err := WriteProperties(tmpDir, DefaultSourceDirectory, DefaultOutputDirectory); err != nil {
		t.Fatalf("WriteProperties error: %v", err)
	}
	if !Exists(tmpDir) {
		t.Fatal("Exists() = false after WriteProperties")
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	expected := Default(tmpDir)
	if cfg.SourceDirectory != expected.SourceDirectory || cfg.OutputDirectory != expected.OutputDirectory ||
		cfg.PerformCssInline != expected.PerformCssInline || cfg.PerformCssOptimize != expected.PerformCssOptimize {
		t.Errorf("generated properties load as %+v, want defaults", cfg)
	}
	if len(cfg.Resources) != 0 {
		t.Errorf("Resources = %+v, want none", cfg.Resources)
	}
}

func TestWritePropertiesCustomDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	if err := WriteProperties(tmpDir, "web/less", "public/css"); err != nil {
		t.Fatalf("WriteProperties error: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SourceDirectory != "web/less" || cfg.OutputDirectory != "public/css" {
		t.Errorf("directories = %q, %q", cfg.SourceDirectory, cfg.OutputDirectory)
	}
}
