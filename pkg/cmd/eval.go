package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leanderhang/bitpunch/pkg/api"
	"github.com/leanderhang/bitpunch/pkg/browse"
)

// reportAndExit prints err and exits 1, rendering the full context-frame
// chain via api.ErrorDumpFull when err carries one.
func reportAndExit(err error) {
	if bErr, ok := err.(*browse.Error); ok {
		api.ErrorDumpFull(bErr, os.Stderr)
		os.Exit(1)
	}

	fmt.Println(err)
	os.Exit(1)
}

var evalCmd = &cobra.Command{
	Use:   "eval <schema> <data> <expr>",
	Short: "Evaluate an expression against a data file under a schema.",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := api.SchemaCreateFromPath(args[0])
		if err != nil {
			reportAndExit(err)
		}

		ds, err := api.DataSourceCreateFromFilePath(args[1])
		if err != nil {
			reportAndExit(err)
		}

		board := api.BoardNew(schema)
		root := api.BoxNewRoot(board, ds)

		v, err := api.EvalExpr(root, args[2])
		if err != nil {
			reportAndExit(err)
		}

		fmt.Println(v.String())
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
