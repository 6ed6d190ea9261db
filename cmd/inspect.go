package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/mabhi256/cgdiag/internal/render"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	maxDepth     int
	maxChildren  int
	noColor      bool
	width        int
)

var outputFormats = []string{"cli", "json"}

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot] [expr...]",
	Short: "Print values from a snapshot",
	Long: `Inspect evaluates expressions against a Crystal GUI snapshot and prints them.
Cgui structures (nodes, animated textures, grid layouts, themes) are printed
by their dedicated printers; everything else is printed field by field.

Expressions:
  name                  a global
  *expr                 dereference
  expr.field            member access
  expr->field           member access through a pointer
  expr[i]               array element
  (CguiNode*)0x1000     an address as a typed pointer

Examples:
  cgdiag inspect scene.toml                      # every global
  cgdiag inspect scene.toml scene 'theme->templates[0]'
  cgdiag inspect scene.toml scene -o json --depth 5`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSnapshotArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(outputFormats, outputFormat) {
			return fmt.Errorf("invalid output format: %s. Valid options: %v", outputFormat, outputFormats)
		}

		config := inspectConfig()
		if err := config.Validate(); err != nil {
			return err
		}

		return validateSnapshot(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		config := inspectConfig()
		if outputFormat == "cli" {
			config = terminalConfig(config)
		}
		r := render.New(s.table, config)
		roots := s.roots(r, args[1:])

		if outputFormat == "json" {
			return r.WriteJSON(os.Stdout, roots...)
		}
		return r.WriteText(os.Stdout, roots...)
	},
}

func inspectConfig() render.Config {
	return render.Config{
		MaxDepth:    maxDepth,
		MaxChildren: maxChildren,
		Color:       !noColor,
		Width:       width,
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	defaults := render.DefaultConfig()
	inspectCmd.Flags().StringVarP(&outputFormat, "output", "o", "cli", "Output format")
	inspectCmd.Flags().IntVar(&maxDepth, "depth", defaults.MaxDepth, "Levels to expand below each value")
	inspectCmd.Flags().IntVar(&maxChildren, "max-children", defaults.MaxChildren, "Children listed per value, 0 for all")
	inspectCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	inspectCmd.Flags().IntVar(&width, "width", 0, "Truncate lines to this many columns (default: terminal width)")

	// When user types: cgdiag inspect scene.toml -o <TAB>
	inspectCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}
