package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/mabhi256/cgdiag/internal/browse"
	"github.com/mabhi256/cgdiag/internal/render"
	"github.com/spf13/cobra"
)

var browseChildren int

var browseCmd = &cobra.Command{
	Use:   "browse [snapshot] [expr...]",
	Short: "Explore a snapshot interactively",
	Long: `Browse opens the values of a snapshot as a collapsible tree. Children are
only read from the snapshot when their parent is expanded.

Examples:
  cgdiag browse scene.toml            # every global
  cgdiag browse scene.toml scene theme`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSnapshotArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if browseChildren < 0 {
			return fmt.Errorf("invalid child limit: %d", browseChildren)
		}
		return validateSnapshot(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		config := render.Config{MaxDepth: 1, MaxChildren: browseChildren, Color: true}
		r := render.New(s.table, config)

		if err := browse.StartTUI(r, s.roots(r, args[1:]), filepath.Base(args[0])); err != nil {
			return fmt.Errorf("unable to start TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().IntVar(&browseChildren, "max-children", 500, "Children listed per value, 0 for all")
}
