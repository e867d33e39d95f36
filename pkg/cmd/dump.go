package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leanderhang/bitpunch/pkg/api"
	"github.com/leanderhang/bitpunch/pkg/browse"
	"github.com/leanderhang/bitpunch/pkg/eval"
	"github.com/leanderhang/bitpunch/pkg/schemalang"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <schema> <data> <path>",
	Short: "Print a box's resolved offsets and value.",
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

		target := root

		if args[2] != "." {
			pathExpr, err := schemalang.CompileExpr(args[2], []byte(args[2]))
			if err != nil {
				reportAndExit(err)
			}

			target, err = eval.EvaluateDpath(root, pathExpr)
			if err != nil {
				reportAndExit(err)
			}
		}

		start, end := target.SpanBounds()

		v, err := target.ReadValue()
		if err != nil {
			if bErr, ok := err.(*browse.Error); ok {
				fmt.Printf("[%d,%d) <unreadable>\n", start, end)
				api.ErrorDumpFull(bErr, os.Stderr)

				return
			}

			fmt.Printf("[%d,%d) <unreadable: %v>\n", start, end, err)

			return
		}

		fmt.Printf("[%d,%d) = %s\n", start, end, v.String())
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
