package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leanderhang/bitpunch/pkg/filter"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the registered filter classes.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range filter.Global().Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(classesCmd)
}
