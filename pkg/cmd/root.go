// Package cmd implements the bitpunch CLI's Cobra command tree: a rootCmd
// carrying persistent flags, subcommands registered from init(), and logrus
// wired to the --verbose flag.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/leanderhang/bitpunch/pkg/api"
	cmdutil "github.com/leanderhang/bitpunch/pkg/cmd/util"
)

// rootCmd is the base command when bitpunch is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "bitpunch",
	Short: "Declarative binary-data interpreter.",
	Long:  "Interprets binary files against a declarative schema: evaluate expressions, dump box offsets, and inspect compiled schemas.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmdutil.GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the root command, registering every subcommand's flags via
// their own init(). Called once from cmd/bitpunch's main().
func Execute() {
	api.Init()
	defer api.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}
