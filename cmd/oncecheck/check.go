package main

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"

	"github.com/kolkov/staticonce/internal/checker"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages]",
		Short: "Scan packages for exactly-once initialization problems",
		Long: `Check loads the named packages (go list patterns; defaults to ./...)
and scans their syntax for claims through the staticonce runtime.

Exit status is non-zero when any error-severity finding is reported:
a cell claimed from more than one compiled call site, or a claim
inside a loop. Strict-mode findings are warnings and do not fail the
check.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	if cfg.ConfigFile() != "" {
		logger.Debug("loaded config file", "path", cfg.ConfigFile())
	}

	// Module context is informational: a module that never requires the
	// runtime has nothing for the scan to find, which usually means the
	// tool is being run in the wrong directory.
	if info, err := currentModule("."); err == nil {
		logger.Debug("scanning module", "path", info.Path, "root", info.Dir)
		if info.RuntimeVersion == "" && info.Path != runtimeModulePath {
			logger.Warn("module does not require the staticonce runtime; the scan will find nothing",
				"module", info.Path, "runtime", runtimeModulePath)
		}
	} else {
		logger.Debug("no module context", "err", err)
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	fset := token.NewFileSet()
	pkgs, err := packages.Load(&packages.Config{
		Fset: fset,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
	}, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return errors.New("packages contain errors")
	}

	c := checker.New(checker.Config{
		OncePath: cfg.OncePath,
		Strict:   cfg.Strict,
	})
	for _, pkg := range pkgs {
		c.CheckPackage(fset, pkg.PkgPath, pkg.Syntax)
	}

	if cfg.Verbose {
		for _, s := range c.Sites() {
			logger.Info("claim",
				"op", s.Op,
				"pos", s.Pos.String(),
				"cell", orUnresolved(s.Key),
				"func", s.Func)
		}
	}

	violations := 0
	for _, d := range c.Finish() {
		if d.Severity == checker.SeverityError {
			violations++
			// Findings go to stdout in vet style so they survive piping
			// and editor integration; the logger stays on stderr.
			fmt.Fprintln(cmd.OutOrStdout(), d.String())
			continue
		}
		logger.Warn(d.Message, "pos", d.Pos.String())
	}

	if violations > 0 {
		return fmt.Errorf("found %d exactly-once violation(s)", violations)
	}

	logger.Info("ok", "packages", len(pkgs), "claims", len(c.Sites()))
	return nil
}

func orUnresolved(key string) string {
	if key == "" {
		return "(unresolved)"
	}
	return key
}
