package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintconfig"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintctx"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintreport"
	"github.com/dsf-tools/dsf-plugin-linter/internal/orchestrate"
)

// Exit codes (spec.md §6).
const (
	ExitOK       = 0 // success, or forced pass via --no-fail
	ExitFindings = 1 // findings at or above the fail-level
	ExitFatal    = 2 // the run could not complete at all
)

var lintFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to .dsflint.toml (default: auto-discover)",
		Sources: cli.EnvVars("DSFLINT_CONFIG"),
	},
	&cli.BoolFlag{
		Name:    "no-fail",
		Usage:   "Always exit 0, even when findings are at or above the fail-level",
		Sources: cli.EnvVars("DSFLINT_NO_FAIL"),
	},
	&cli.StringFlag{
		Name:    "fail-level",
		Usage:   "Minimum severity that causes a non-zero exit: error, warn, info, success, none",
		Sources: cli.EnvVars("DSFLINT_OUTPUT_FAIL_LEVEL"),
	},
	&cli.StringFlag{
		Name:    "timeout",
		Usage:   "Bound the whole run, e.g. \"30s\", \"2m\"",
		Sources: cli.EnvVars("DSFLINT_RUN_TIMEOUT"),
	},
	&cli.StringFlag{
		Name:    "authorization-catalogue",
		Usage:   "Path to a TOML or JSON file listing recognised process-authorization codes",
		Sources: cli.EnvVars("DSFLINT_AUTHORIZATION_CATALOGUE_FILE"),
	},
	&cli.BoolFlag{
		Name:  "html",
		Usage: "Render an HTML report (not implemented here; use a dedicated reporting tool)",
	},
	&cli.BoolFlag{
		Name:  "json",
		Usage: "Render a JSON report (not implemented here; use a dedicated reporting tool)",
	},
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("html") || cmd.Bool("json") {
		fmt.Fprintln(os.Stderr, "dsflint: structured report rendering (html/json) is handled by a separate tool; this command only prints a text summary")
		return cli.Exit("", ExitFatal)
	}

	args := cmd.Args().Slice()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "dsflint: expected exactly one archive path")
		return cli.Exit("", ExitFatal)
	}
	archivePath := args[0]

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = lintconfig.Discover(archivePath)
	}

	flagOverrides := map[string]any{}
	if v := cmd.String("fail-level"); v != "" {
		flagOverrides["output.fail-level"] = v
	}
	if v := cmd.String("timeout"); v != "" {
		flagOverrides["run.timeout"] = v
	}
	if v := cmd.String("authorization-catalogue"); v != "" {
		flagOverrides["authorization.catalogue-file"] = v
	}

	cfg, err := lintconfig.LoadWithOverrides(configPath, flagOverrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: loading configuration: %v\n", err)
		return cli.Exit("", ExitFatal)
	}

	overrides, err := cfg.SeverityOverrides()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: %v\n", err)
		return cli.Exit("", ExitFatal)
	}
	failLevel, err := cfg.FailLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: %v\n", err)
		return cli.Exit("", ExitFatal)
	}
	authCodes, err := cfg.AuthorizationCodes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: %v\n", err)
		return cli.Exit("", ExitFatal)
	}
	deadline, err := cfg.Deadline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: %v\n", err)
		return cli.Exit("", ExitFatal)
	}

	lc := lintctx.New().WithChannel(lintctx.NewStdChannel())
	if !deadline.IsZero() {
		lc = lc.WithDeadline(deadline)
	}

	result, err := orchestrate.Run(ctx, orchestrate.Options{
		ArchivePath:        archivePath,
		Overrides:          overrides,
		AuthorizationCodes: authCodes,
		FailLevel:          failLevel,
		NoFail:             cmd.Bool("no-fail"),
		Deadline:           *lc,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: %v\n", err)
		return cli.Exit("", ExitFatal)
	}

	if result.Disposition == orchestrate.DispositionFatal {
		fmt.Fprintf(os.Stderr, "dsflint: %s: %s\n", result.Fatal.Kind, result.Fatal.Message)
		return cli.Exit("", ExitFatal)
	}

	if err := lintreport.WriteText(os.Stdout, result.Report); err != nil {
		fmt.Fprintf(os.Stderr, "dsflint: writing report: %v\n", err)
		return cli.Exit("", ExitFatal)
	}

	if result.Disposition == orchestrate.DispositionFindings {
		return cli.Exit("", ExitFindings)
	}
	return nil
}
