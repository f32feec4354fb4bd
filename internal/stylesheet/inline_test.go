package stylesheet

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	lerrors "csslesser/internal/errors"
)

// memFS is an in-memory FileSource and FileSink
type memFS struct {
	files fstest.MapFS
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: fstest.MapFS{}}
	for name, content := range files {
		m.files[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func (m *memFS) source() FSSource {
	return FSSource{FS: m.files}
}

func (m *memFS) WriteFile(path string, data []byte) error {
	m.files[path] = &fstest.MapFile{Data: data}
	return nil
}

func (m *memFS) inliner() *Inliner {
	return &Inliner{Source: m.source(), Sink: m}
}

func TestResolveNestedImports(t *testing.T) {
	fs := newMemFS(map[string]string{
		"css/main.css":             "@import url(theme/base.css);\nbody{background:url(bg.png)}",
		"css/theme/base.css":       "@import url('fonts/font.css');\n.b{background:url(\"img/b.png\")}",
		"css/theme/fonts/font.css": "@font-face{src:url(f.woff)}\n.abs{background:url(/abs.png)}",
	})

	result, err := fs.inliner().Resolve("css/main.css", ".")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	expected := "@font-face{src:url('./theme/fonts/f.woff')}\n" +
		".abs{background:url('/abs.png')}\n" +
		".b{background:url('./theme/img/b.png')}\n" +
		"body{background:url('./bg.png')}"
	if result != expected {
		t.Errorf("Resolve() =\n%s\nwant\n%s", result, expected)
	}
}

func TestResolveKeepsImportOrder(t *testing.T) {
	fs := newMemFS(map[string]string{
		"all.css": "@import url(a.css); @import url(b.css); @import url(c.css);",
		"a.css":   ".a{}",
		"b.css":   ".b{}",
		"c.css":   ".c{}",
	})

	result, err := fs.inliner().Resolve("all.css", ".")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result != ".a{} .b{} .c{}" {
		t.Errorf("Resolve() = %q", result)
	}
}

func TestResolveWithoutImportsOnlyRequotes(t *testing.T) {
	fs := newMemFS(map[string]string{
		"plain.css": "a{background:url(\"x.png\")}\nb{color:red}",
	})

	result, err := fs.inliner().Resolve("plain.css", ".")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result != "a{background:url('./x.png')}\nb{color:red}" {
		t.Errorf("Resolve() = %q", result)
	}
}

func TestInlineFileWritesOnlyTopLevel(t *testing.T) {
	fs := newMemFS(map[string]string{
		"main.css":     "@import url(sub/part.css);",
		"sub/part.css": ".p{background:url(p.png)}",
	})

	if err := fs.inliner().InlineFile("main.css"); err != nil {
		t.Fatalf("InlineFile error: %v", err)
	}

	if got := string(fs.files["main.css"].Data); got != ".p{background:url('./sub/p.png')}" {
		t.Errorf("main.css = %q", got)
	}
	if got := string(fs.files["sub/part.css"].Data); got != ".p{background:url(p.png)}" {
		t.Errorf("imported file was modified: %q", got)
	}
}

func TestMissingImport(t *testing.T) {
	files := map[string]string{
		"main.css": "@import url(nope.css);.a{}",
	}

	t.Run("skip", func(t *testing.T) {
		result, err := newMemFS(files).inliner().Resolve("main.css", ".")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if result != ".a{}" {
			t.Errorf("Resolve() = %q, want %q", result, ".a{}")
		}
	})

	t.Run("fail", func(t *testing.T) {
		in := newMemFS(files).inliner()
		in.Missing = MissingFail
		_, err := in.Resolve("main.css", ".")
		if !lerrors.IsNotFound(err) {
			t.Errorf("Resolve error = %v, want not-found", err)
		}
	})

	t.Run("missing top level is skipped", func(t *testing.T) {
		fs := newMemFS(files)
		if err := fs.inliner().InlineFile("absent.css"); err != nil {
			t.Errorf("InlineFile error = %v, want nil", err)
		}
		if _, ok := fs.files["absent.css"]; ok {
			t.Errorf("absent.css was created")
		}
	})
}

func TestImportThroughRegularFile(t *testing.T) {
	tmpDir := t.TempDir()
	main := filepath.Join(tmpDir, "main.css")
	content := "@import url(main.css/x.css);a{b:c}"
	if err := os.WriteFile(main, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("skip", func(t *testing.T) {
		got, err := NewInliner().Resolve(main, ".")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if got != "a{b:c}" {
			t.Errorf("Resolve() = %q, want %q", got, "a{b:c}")
		}
	})

	t.Run("fail", func(t *testing.T) {
		in := NewInliner()
		in.Missing = MissingFail
		_, err := in.Resolve(main, ".")
		if !lerrors.IsNotFound(err) {
			t.Errorf("Resolve error = %v, want not found", err)
		}
	})
}

func TestCircularImports(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		start string
	}{
		{
			"self import",
			map[string]string{"self.css": "@import url(self.css);"},
			"self.css",
		},
		{
			"two file cycle",
			map[string]string{
				"a.css": "@import url(b.css);",
				"b.css": "@import url(a.css);",
			},
			"a.css",
		},
		{
			"cycle through subdirectory",
			map[string]string{
				"main.css":   "@import url(lib/x.css);",
				"lib/x.css":  "@import url(../main.css);",
				"unused.css": "",
			},
			"main.css",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newMemFS(tt.files).inliner().Resolve(tt.start, ".")
			if !lerrors.IsCircularImport(err) {
				t.Errorf("Resolve error = %v, want circular import", err)
			}
		})
	}
}

func TestDiamondImportIsNotACycle(t *testing.T) {
	fs := newMemFS(map[string]string{
		"top.css":    "@import url(x.css);@import url(y.css);",
		"x.css":      "@import url(shared.css);",
		"y.css":      "@import url(shared.css);",
		"shared.css": ".s{}",
	})

	result, err := fs.inliner().Resolve("top.css", ".")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if result != ".s{}.s{}" {
		t.Errorf("Resolve() = %q", result)
	}
}

func TestChildPrefix(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"a.css", "."},
		{"theme/a.css", "theme"},
		{"a/b/c.css", "a/b"},
		{"/root.css", "."},
		{"", "."},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ChildPrefix(tt.ref); got != tt.expected {
				t.Errorf("ChildPrefix(%q) = %q, want %q", tt.ref, got, tt.expected)
			}
		})
	}
}
