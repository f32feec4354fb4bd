package builder

import (
	"path/filepath"

	"csslesser/internal/config"
	lerrors "csslesser/internal/errors"
	"csslesser/internal/less"
	"csslesser/internal/stylesheet"
	"csslesser/internal/ui"
)

// Report counts the files handled by each stage of a run
type Report struct {
	Copied   int
	Compiled int
	Minified int
	Inlined  int
}

// Pipeline copies resource sets into the output tree, then compiles, minifies
// and inlines them. Stages always run in that order.
type Pipeline struct {
	Config   *config.Config
	Compiler less.Compiler
	Lister   Lister
	Quiet    bool
}

// New creates a Pipeline using lessc and glob based file listing
func New(cfg *config.Config) *Pipeline {
	lessc := less.NewLessc(cfg.LesscPath)
	lessc.Args = cfg.LesscArgs
	return &Pipeline{
		Config:   cfg,
		Compiler: lessc,
		Lister:   GlobLister{},
	}
}

// Run executes every enabled stage and stops at the first error
func (p *Pipeline) Run() (*Report, error) {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{}
	output := cfg.OutputPath()

	for _, set := range cfg.Resources {
		files, err := p.Lister.List(cfg.ResourcePath(set), set.Include, set.Exclude)
		if err != nil {
			return report, lerrors.IOFailure(cfg.ResourcePath(set), err)
		}

		if err := p.copy(set, files, report); err != nil {
			return report, err
		}

		if cfg.PerformLessCompile {
			if err := p.compile(files, report); err != nil {
				return report, err
			}
		}
	}

	// Tree-wide stages run once so files shared by several sets are not processed twice
	if cfg.PerformCssCompress {
		if err := p.compress(output, report); err != nil {
			return report, err
		}
	}

	if cfg.PerformCssInline {
		if err := p.inline(output, report); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (p *Pipeline) copy(set config.ResourceSet, files []string, report *Report) error {
	ui.PrintInfo("Copying resources (%s)...", set.Name)
	src := p.Config.ResourcePath(set)
	output := p.Config.OutputPath()
	for _, rel := range files {
		if err := CopyFile(filepath.Join(src, rel), filepath.Join(output, rel)); err != nil {
			return err
		}
		report.Copied++
	}
	return nil
}

func (p *Pipeline) compile(files []string, report *Report) error {
	ui.PrintInfo("Performing less transformation...")
	output := p.Config.OutputPath()
	for _, rel := range files {
		if !less.IsSource(rel) {
			continue
		}
		p.logf("LESS processing file: %s ...", filepath.ToSlash(rel))

		in := filepath.Join(output, rel)
		out := filepath.Join(output, less.OutputPath(rel))
		if err := p.Compiler.Compile(in, out); err != nil {
			if lerrors.KindOf(err) == "" {
				err = lerrors.CompileFailure(in, err)
			}
			return err
		}
		report.Compiled++
	}
	return nil
}

func (p *Pipeline) compress(output string, report *Report) error {
	ui.PrintInfo("Performing css compression...")
	files, err := FindStylesheets(output)
	if err != nil {
		return err
	}

	minifier := stylesheet.Minifier{
		StripComments: p.Config.PerformCssCommentStrip,
		SingleLine:    p.Config.PerformCssSingleLine,
	}
	var optimizer *stylesheet.Optimizer
	if p.Config.PerformCssOptimize {
		optimizer = stylesheet.NewOptimizer()
	}

	for _, path := range files {
		p.logf("Compressing file: %s ...", p.display(path))
		if err := minifier.MinifyFile(path); err != nil {
			return err
		}
		if optimizer != nil {
			if err := optimizer.OptimizeFile(path); err != nil {
				return err
			}
		}
		report.Minified++
	}
	return nil
}

func (p *Pipeline) inline(output string, report *Report) error {
	ui.PrintInfo("Performing css inlining...")
	files, err := FindStylesheets(output)
	if err != nil {
		return err
	}

	inliner := stylesheet.NewInliner()
	inliner.Log = p.logf
	if p.Config.FailOnMissingImport {
		inliner.Missing = stylesheet.MissingFail
	}

	for _, path := range files {
		p.logf("Inlining file: %s ...", p.display(path))
		if err := inliner.InlineFile(path); err != nil {
			return err
		}
		report.Inlined++
	}
	return nil
}

// display shortens a path relative to the base directory for log output
func (p *Pipeline) display(path string) string {
	if rel, err := stylesheet.MinimizePath(path, p.Config.BaseDir); err == nil {
		return rel
	}
	return path
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if !p.Quiet {
		ui.PrintInfo(format, args...)
	}
}
