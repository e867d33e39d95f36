// Package util holds small Cobra flag-reading helpers shared across
// cmd/bitpunch's subcommands (GetFlag/GetString/GetUint/...): read a typed
// flag or exit with a diagnostic, rather than threading an error back
// through every caller.
package util

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// GetFlag reads an expected boolean flag, or exits if it is missing.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString reads an expected string flag, or exits if it is missing.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint reads an expected unsigned integer flag, or exits if it is
// missing.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}
