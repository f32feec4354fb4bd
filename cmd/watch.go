package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"csslesser/internal/config"
	"csslesser/internal/ui"
	"csslesser/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directories and rebuild on change",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		cfg, err := config.Load(dir)
		if err != nil {
			ui.PrintError("Failed to load configuration: %v", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			ui.PrintError("Invalid configuration: %v", err)
			os.Exit(1)
		}

		ui.PrintInfo("Watching for changes...")
		ui.PrintInfo("Press Ctrl+C to stop")
		fmt.Println()

		// Build once so the output starts in sync
		rebuild(dir)

		if !watchPoll {
			err := notifyLoop(dir, cfg)
			ui.PrintWarning("File notifications unavailable (%v), polling instead", err)
		}
		pollLoop(dir, cfg)
	},
}

var watchPoll bool

// notifyLoop rebuilds on filesystem notifications. It only returns when the
// watcher cannot be set up.
func notifyLoop(dir string, cfg *config.Config) error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	output := cfg.OutputPath()
	changes := make(chan string, 1)
	w.Delay = 500 * time.Millisecond
	w.IsValidFile = func(path string) bool {
		if strings.HasPrefix(path, output+string(filepath.Separator)) {
			return false
		}
		if filepath.Dir(path) == dir {
			name := filepath.Base(path)
			return name == config.PropertiesFile || name == config.YAMLFile
		}
		return true
	}
	w.OnError = func(err error) {
		ui.PrintWarning("Error watching: %v", err)
	}
	w.Changed = func(path string) {
		select {
		case changes <- path:
		default:
		}
	}

	if err := w.Add(dir); err != nil {
		return err
	}
	for _, set := range cfg.Resources {
		if err := w.AddTree(cfg.ResourcePath(set)); err != nil {
			return err
		}
	}

	for {
		path := <-changes
		if rel, err := filepath.Rel(dir, path); err == nil {
			path = filepath.ToSlash(rel)
		}
		fmt.Println()
		ui.PrintInfo("Changes detected in %s, rebuilding...", path)
		fmt.Println()
		rebuild(dir)
		fmt.Println()
		ui.PrintInfo("Watching for changes...")
	}
}

func pollLoop(dir string, cfg *config.Config) {
	_, lastMod := hasChanges(dir, cfg, time.Time{})
	debounce := 500 * time.Millisecond

	for {
		changed, newMod := hasChanges(dir, cfg, lastMod)
		if !changed {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if time.Since(newMod) < debounce {
			time.Sleep(debounce)
			continue
		}

		lastMod = newMod

		fmt.Println()
		ui.PrintInfo("Changes detected, rebuilding...")
		fmt.Println()
		rebuild(dir)
		fmt.Println()
		ui.PrintInfo("Watching for changes...")
	}
}

// rebuild runs the build command in a child process so a failing build does
// not stop the watcher
func rebuild(dir string) {
	buildCmd := exec.Command(os.Args[0], "build", "--quiet")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	buildCmd.Dir = dir
	buildCmd.Run()
}

func init() {
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "Poll for changes instead of using file notifications")
	rootCmd.AddCommand(watchCmd)
}

// hasChanges reports whether any source file or configuration file was
// modified after since, along with the newest modification time seen
func hasChanges(dir string, cfg *config.Config, since time.Time) (bool, time.Time) {
	latestMod := since
	changed := false

	checkFile := func(path string) {
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.ModTime().After(since) {
			changed = true
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
		}
	}

	for _, set := range cfg.Resources {
		filepath.Walk(cfg.ResourcePath(set), func(p string, i os.FileInfo, e error) error {
			if e != nil || i.IsDir() {
				return nil
			}
			if strings.HasPrefix(i.Name(), ".") {
				return nil
			}
			checkFile(p)
			return nil
		})
	}

	checkFile(filepath.Join(dir, config.PropertiesFile))
	checkFile(filepath.Join(dir, config.YAMLFile))

	return changed, latestMod
}
