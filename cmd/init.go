package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"csslesser/internal/config"
	"csslesser/internal/ui"
)

var (
	initSource string
	initOutput string
)

const sampleLess = `@import url(theme/base.css);

@accent: #7c3aed;

body {
  color: @accent;
}
`

const sampleThemeCSS = `/* Relative urls are rewritten when this file is inlined */
.logo {
  background: url(images/logo.png) no-repeat;
}
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a csslesser project",
	Long:  "Create csslesser.properties and a sample source directory",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		if existing := config.ExistingFile(dir); existing != "" {
			ui.PrintWarning("%s already exists", existing)
			os.Exit(1)
		}

		source, output := initSource, initOutput
		if source == "" && output == "" {
			reader := bufio.NewReader(os.Stdin)
			ui.PrintInfo("Let's set up your stylesheet build!")
			fmt.Println()
			source = prompt(reader, "Source directory", config.DefaultSourceDirectory)
			output = prompt(reader, "Output directory", config.DefaultOutputDirectory)
			fmt.Println()
		}
		if source == "" {
			source = config.DefaultSourceDirectory
		}
		if output == "" {
			output = config.DefaultOutputDirectory
		}

		if err := initProject(dir, source, output); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		ui.PrintSuccess("Created %s", config.PropertiesFile)
		fmt.Println()
		ui.PrintInfo("Run 'csslesser build' to build your stylesheets")
	},
}

func init() {
	initCmd.Flags().StringVar(&initSource, "source", "", "Source directory")
	initCmd.Flags().StringVar(&initOutput, "output", "", "Output directory")
}

// initProject writes the configuration and, when the source directory is
// empty, a sample stylesheet tree
func initProject(dir, source, output string) error {
	if err := config.WriteProperties(dir, source, output); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.PropertiesFile, err)
	}

	srcDir := filepath.Join(dir, config.NormalizePath(source))
	if !isEmptyDir(srcDir) {
		return nil
	}

	files := map[string]string{
		"main.less":      sampleLess,
		"theme/base.css": sampleThemeCSS,
	}
	for name, content := range files {
		path := filepath.Join(srcDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("  %s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("  %s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}

func isEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true // Treat errors as empty
	}
	return len(entries) == 0
}
