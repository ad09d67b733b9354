// Command dsflint lints a single DSF process-plugin archive.
package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dsf-tools/dsf-plugin-linter/cmd/dsflint/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	if coder, ok := err.(cli.ExitCoder); ok {
		os.Exit(coder.ExitCode())
	}
	os.Exit(1)
}
