package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "dsflint",
		Usage: "Lint a DSF process-plugin archive for BPMN and FHIR issues",
		Description: `dsflint checks a DSF process-plugin archive's BPMN process definitions
and FHIR resources against the conventions the DSF BPE expects at deploy time.

Examples:
  dsflint my-plugin.jar
  dsflint --no-fail my-plugin.jar
  dsflint --config .dsflint.toml my-plugin.jar`,
		ArgsUsage: "<archive>",
		Flags:     lintFlags,
		Action:    runLint,
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
