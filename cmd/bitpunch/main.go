// Command bitpunch is the CLI entrypoint: it delegates entirely to
// pkg/cmd's Cobra tree.
package main

import "github.com/leanderhang/bitpunch/pkg/cmd"

func main() {
	cmd.Execute()
}
