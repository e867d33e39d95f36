package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leanderhang/bitpunch/pkg/api"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <schema>",
	Short: "Print the compiled schema AST as an s-expression.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		schema, err := api.SchemaCreateFromPath(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Println(schema.Lisp().String(true))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
