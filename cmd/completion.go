package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"csslesser/internal/ui"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for csslesser.

To load completions:

Bash:
  $ source <(csslesser completion bash)

Zsh:
  $ csslesser completion zsh > "${fpath[1]}/_csslesser"

Fish:
  $ csslesser completion fish | source

PowerShell:
  PS> csslesser completion powershell | Out-String | Invoke-Expression

Or run 'csslesser completion install' to set it up for your current shell.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

var completionInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completion for your current shell",
	Run: func(cmd *cobra.Command, args []string) {
		shell := detectShell(os.Getenv("SHELL"))
		if shell == "" {
			ui.PrintError("Could not detect shell. Please use 'csslesser completion [bash|zsh|fish|powershell]' manually")
			os.Exit(1)
		}

		home, err := os.UserHomeDir()
		if err != nil {
			ui.PrintError("Could not find home directory: %v", err)
			os.Exit(1)
		}

		target := completionTarget(shell, home)

		if err := os.MkdirAll(filepath.Dir(target.file), 0755); err != nil {
			ui.PrintError("Failed to create completion directory: %v", err)
			os.Exit(1)
		}

		f, err := os.Create(target.file)
		if err != nil {
			ui.PrintError("Failed to create completion file: %v", err)
			os.Exit(1)
		}
		switch shell {
		case "zsh":
			rootCmd.GenZshCompletion(f)
		case "bash":
			rootCmd.GenBashCompletion(f)
		case "fish":
			rootCmd.GenFishCompletion(f, true)
		}
		f.Close()

		ui.PrintSuccess("Installed completion script to %s", target.file)

		// Fish auto-loads from its completions directory
		if target.rcFile == "" {
			return
		}

		rcContent, _ := os.ReadFile(target.rcFile)
		if !strings.Contains(string(rcContent), "csslesser") {
			f, err := os.OpenFile(target.rcFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
			if err != nil {
				ui.PrintWarning("Could not update %s: %v", target.rcFile, err)
				ui.PrintInfo("Please add manually: %s", target.sourceLine)
			} else {
				f.WriteString(target.sourceLine)
				f.Close()
				ui.PrintSuccess("Updated %s", target.rcFile)
			}
		}

		fmt.Println()
		ui.PrintInfo("Restart your shell or run: source %s", target.rcFile)
	},
}

type completionPaths struct {
	file       string
	rcFile     string
	sourceLine string
}

func completionTarget(shell, home string) completionPaths {
	switch shell {
	case "zsh":
		dir := filepath.Join(home, ".zsh", "completions")
		return completionPaths{
			file:       filepath.Join(dir, "_csslesser"),
			rcFile:     filepath.Join(home, ".zshrc"),
			sourceLine: fmt.Sprintf("\n# csslesser\nfpath=(%s $fpath)\nautoload -Uz compinit && compinit\n", dir),
		}
	case "bash":
		file := filepath.Join(home, ".bash_completion.d", "csslesser")
		return completionPaths{
			file:       file,
			rcFile:     filepath.Join(home, ".bashrc"),
			sourceLine: fmt.Sprintf("\n[ -f %s ] && source %s\n", file, file),
		}
	default:
		return completionPaths{
			file: filepath.Join(home, ".config", "fish", "completions", "csslesser.fish"),
		}
	}
}

func detectShell(shell string) string {
	for _, name := range []string{"zsh", "bash", "fish"} {
		if strings.Contains(shell, name) {
			return name
		}
	}
	return ""
}

func init() {
	completionCmd.AddCommand(completionInstallCmd)
	rootCmd.AddCommand(completionCmd)
}
