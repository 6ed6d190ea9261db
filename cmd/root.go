package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

const binaryName = "cgdiag"

var (
	debug        bool
	debugLogFile string
)

var supportedShells = []string{"bash", "zsh", "fish", "powershell"}

// snapshotExtensions are the files inspect, browse and types accept
var snapshotExtensions = []string{".toml"}

var rootCmd = &cobra.Command{
	Use:   binaryName,
	Short: "Debug views of Crystal GUI structures",
	Long: `cgdiag prints Crystal GUI structures (nodes, animated textures, grid layouts
and themes) from process snapshots the way a debugger would show them.`,
	SilenceUsage: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch cmd.Name() {
		case "install", "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return
		}

		if !isShellSupported() || completionsExist(cmd.Root()) {
			return
		}

		// stdout may be JSON, so setup chatter goes to stderr
		fmt.Fprintf(os.Stderr, "🔧 First run detected, setting up %s...\n", binaryName)
		if installCompletions(cmd.Root(), os.Stderr) == nil {
			fmt.Fprintln(os.Stderr, "✅ Shell completions installed")
			fmt.Fprintln(os.Stderr, "💡 Restart your shell to enable tab completion")
		} else {
			fmt.Fprintf(os.Stderr, "⚠️  Auto-setup failed. Run '%s install' to try again.\n", binaryName)
		}
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	Run: func(cmd *cobra.Command, args []string) {
		if !isInPath() {
			printPathInstructions()
			return
		}

		if !isShellSupported() {
			fmt.Printf("❌ Shell completion not supported for: %s\n", detectShell())
			fmt.Println("Supported shells: bash, zsh, fish, powershell")
			return
		}

		if completionsExist(cmd.Root()) {
			fmt.Println("✅ Already configured!")
			return
		}

		fmt.Println("📦 Installing completions...")
		if err := installCompletions(cmd.Root(), os.Stdout); err != nil {
			fmt.Printf("❌ Failed: %v\n", err)
		} else {
			fmt.Println("✅ Done! Restart your shell to enable tab completion.")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

type completionConfig struct {
	dir         string
	file        string
	genFunc     func(io.Writer) error
	activateCmd string
}

func completionConfigs(root *cobra.Command) map[string]completionConfig {
	home, _ := os.UserHomeDir()

	bashDir := filepath.Join(home, ".local/share/bash-completion/completions")
	zshDir := filepath.Join(home, ".zsh/completions")

	return map[string]completionConfig{
		"bash": {
			dir:         bashDir,
			file:        binaryName,
			genFunc:     root.GenBashCompletion,
			activateCmd: "source " + filepath.Join(bashDir, binaryName),
		},
		"zsh": {
			dir:         zshDir,
			file:        "_" + binaryName,
			genFunc:     root.GenZshCompletion,
			activateCmd: fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", zshDir),
		},
		"fish": {
			dir:         filepath.Join(home, ".config/fish/completions"),
			file:        binaryName + ".fish",
			genFunc:     func(w io.Writer) error { return root.GenFishCompletion(w, true) },
			activateCmd: "complete --do-complete=" + binaryName,
		},
		"powershell": {
			dir:         home,
			file:        binaryName + "_completion.ps1",
			genFunc:     root.GenPowerShellCompletionWithDesc,
			activateCmd: ". " + filepath.Join(home, binaryName+"_completion.ps1"),
		},
	}
}

func completionsExist(root *cobra.Command) bool {
	config, ok := completionConfigs(root)[detectShell()]
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(config.dir, config.file))
	return err == nil
}

func isShellSupported() bool {
	return slices.Contains(supportedShells, detectShell())
}

func detectShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}

	shell := filepath.Base(os.Getenv("SHELL"))
	if shell == "" || shell == "." {
		return "bash"
	}
	return shell
}

func installCompletions(root *cobra.Command, out io.Writer) error {
	shell := detectShell()
	config, ok := completionConfigs(root)[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s", shell)
	}

	if err := os.MkdirAll(config.dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(config.dir, config.file))
	if err != nil {
		return err
	}
	defer file.Close()

	if err := config.genFunc(file); err != nil {
		return err
	}

	fmt.Fprintf(out, "🔄 Running this command to enable auto-completions:\n")
	fmt.Fprintf(out, "   %s\n", config.activateCmd)
	return nil
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}

	paths := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))
	return slices.Contains(paths, filepath.Dir(execPath))
}

func printPathInstructions() {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Printf("❌ %s not in PATH. Binary location: %s\n\n", binaryName, execPath)

	if runtime.GOOS == "windows" {
		fmt.Printf("Add to PATH: %s\n", execDir)
	} else {
		fmt.Printf("Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
		fmt.Printf("Or copy to: /usr/local/bin\n")
	}
}

func init() {
	rootCmd.AddCommand(installCmd)

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write a JSON debug log of printer dispatch")
	rootCmd.PersistentFlags().StringVar(&debugLogFile, "debug-log", "", "Debug log path (implies --debug)")
}
