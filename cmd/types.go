package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/mabhi256/cgdiag/internal/image/model"
	"github.com/mabhi256/cgdiag/utils"
	"github.com/spf13/cobra"
)

var dumpTypes bool

var typesCmd = &cobra.Command{
	Use:   "types [snapshot] [type...]",
	Short: "Show the struct layouts of a snapshot",
	Long: `Types lists the structures and typedefs a snapshot declares with their
computed sizes and field offsets. --dump prints the full type records.`,
	Args: cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return completeSnapshotArgs(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateSnapshot(args[0])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		var types []*model.Type
		if len(args) > 1 {
			for _, name := range args[1:] {
				t, err := s.img.Types.Lookup(name)
				if err != nil {
					return err
				}
				types = append(types, t)
			}
		} else {
			types = s.img.Types.Structs()
		}

		if dumpTypes {
			dumper := spew.ConfigState{
				Indent:                  "  ",
				MaxDepth:                3,
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}
			for _, t := range types {
				dumper.Fdump(os.Stdout, t)
			}
			return nil
		}

		for _, t := range types {
			fmt.Println(t.Layout())
			fmt.Println()
		}

		stats := s.img.Memory.Statistics()
		mapped, _ := stats["mapped_bytes"].(int)
		fmt.Printf("📦 %d types, %d constants, %d globals, %v segments (%s mapped)\n",
			len(types), len(s.img.Symbols.ConstantNames()), len(s.img.Globals()),
			stats["segments"], utils.ByteSize(mapped))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)

	typesCmd.Flags().BoolVar(&dumpTypes, "dump", false, "Dump the full type records")
}
