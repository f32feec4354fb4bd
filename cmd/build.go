package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csslesser/internal/builder"
	"csslesser/internal/config"
	"csslesser/internal/ui"
)

var (
	buildQuiet         bool
	buildNoLess        bool
	buildNoCompress    bool
	buildKeepComments  bool
	buildKeepLines     bool
	buildNoInline      bool
	buildOptimize      bool
	buildFailOnMissing bool
	buildSource        string
	buildOutput        string
	buildLessc         string
	buildLesscArgs     []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build stylesheets",
	Long:  "Copy, compile, minify and inline the stylesheets of the current directory",
	Run: func(cmd *cobra.Command, args []string) {
		if !buildQuiet {
			ui.PrintHeader(Version)
		}

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		cfg, err := loadBuildConfig(cmd, dir)
		if err != nil {
			ui.PrintError("Failed to load configuration: %v", err)
			os.Exit(1)
		}

		report, err := runBuild(cfg, buildQuiet)
		if err != nil {
			ui.PrintError("Build failed: %v", err)
			os.Exit(1)
		}

		if buildQuiet {
			ui.PrintSuccess("Processed %d files into %s", report.Copied, cfg.OutputDirectory)
			return
		}

		fmt.Println()
		fmt.Println(ui.Divider())
		fmt.Println()
		printReport(report)
		fmt.Println()
		ui.PrintSuccess("Build complete!")
		fmt.Println()
	},
}

func init() {
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Only print stage headers and errors")
	buildCmd.Flags().BoolVar(&buildNoLess, "no-less", false, "Skip LESS compilation")
	buildCmd.Flags().BoolVar(&buildNoCompress, "no-compress", false, "Skip CSS compression")
	buildCmd.Flags().BoolVar(&buildKeepComments, "keep-comments", false, "Keep comments when compressing")
	buildCmd.Flags().BoolVar(&buildKeepLines, "keep-lines", false, "Keep line breaks when compressing")
	buildCmd.Flags().BoolVar(&buildNoInline, "no-inline", false, "Skip @import inlining")
	buildCmd.Flags().BoolVar(&buildOptimize, "optimize", false, "Run the optimizing minifier after compression")
	buildCmd.Flags().BoolVar(&buildFailOnMissing, "fail-on-missing", false, "Fail when an @import target does not exist")
	buildCmd.Flags().StringVarP(&buildSource, "source", "s", "", "Source directory (default "+config.DefaultSourceDirectory+")")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default "+config.DefaultOutputDirectory+")")
	buildCmd.Flags().StringVar(&buildLessc, "lessc", "", "Path to the lessc executable")
	buildCmd.Flags().StringArrayVar(&buildLesscArgs, "lessc-arg", nil, "Extra argument passed to lessc (repeatable)")
}

// loadBuildConfig loads the configuration file and applies flags given on the command line
func loadBuildConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("no-less") {
		cfg.PerformLessCompile = !buildNoLess
	}
	if flags.Changed("no-compress") {
		cfg.PerformCssCompress = !buildNoCompress
	}
	if flags.Changed("keep-comments") {
		cfg.PerformCssCommentStrip = !buildKeepComments
	}
	if flags.Changed("keep-lines") {
		cfg.PerformCssSingleLine = !buildKeepLines
	}
	if flags.Changed("no-inline") {
		cfg.PerformCssInline = !buildNoInline
	}
	if flags.Changed("optimize") {
		cfg.PerformCssOptimize = buildOptimize
	}
	if flags.Changed("fail-on-missing") {
		cfg.FailOnMissingImport = buildFailOnMissing
	}
	if buildSource != "" {
		cfg.SourceDirectory = buildSource
		cfg.Resources = nil
	}
	if buildOutput != "" {
		cfg.OutputDirectory = buildOutput
	}
	if buildLessc != "" {
		cfg.LesscPath = buildLessc
	}
	if flags.Changed("lessc-arg") {
		cfg.LesscArgs = buildLesscArgs
	}
	return cfg, nil
}

func runBuild(cfg *config.Config, quiet bool) (*builder.Report, error) {
	if !quiet {
		ui.PrintKeyValue("Source", "  "+cfg.SourceDirectory)
		ui.PrintKeyValue("Output", "  "+cfg.OutputDirectory)
		fmt.Println()
	}
	p := builder.New(cfg)
	p.Quiet = quiet
	return p.Run()
}

func printReport(report *builder.Report) {
	fmt.Println(ui.Header("Summary"))
	ui.PrintCount("files copied", report.Copied)
	ui.PrintCount("LESS files compiled", report.Compiled)
	ui.PrintCount("stylesheets compressed", report.Minified)
	ui.PrintCount("stylesheets inlined", report.Inlined)
}
