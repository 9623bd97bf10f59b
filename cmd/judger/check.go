package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/urfave/cli/v3"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "verify case files and compilers of the configured catalog",
		Action: check,
	}
}

func check(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	findings := cat.Check()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tHEALTH\tMESSAGE")
	failed := 0
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Unit, healthLabel(f.Health), f.Message)
		if f.Health == catalog.HealthError {
			failed++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(findings))
	}
	return nil
}

func healthLabel(h catalog.Health) string {
	switch h {
	case catalog.HealthOK:
		return color.GreenString("OK")
	case catalog.HealthWarning:
		return color.YellowString("WARNING")
	default:
		return color.RedString("ERROR")
	}
}
