package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/programme-lv/judger/internal/behave"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/programme-lv/judger/internal/tester"
	"github.com/programme-lv/judger/internal/workspace"
	"github.com/urfave/cli/v3"
)

func behaveCommand() *cli.Command {
	return &cli.Command{
		Name:      "behave",
		Usage:     "run behaviour scenario files against the pipeline",
		ArgsUsage: "<file.toml>...",
		Action:    runBehave,
	}
}

func runBehave(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no behaviour files given")
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ws, err := workspace.New(a.env.WorkspaceRoot)
	if err != nil {
		return err
	}
	tst := tester.NewTester(ws, filestore.New(), a.logger)
	tst.SetCompileOutput(nil)

	dir, err := os.MkdirTemp("", "judger-behave-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	total, failed := 0, 0
	for _, path := range cmd.Args().Slice() {
		scenarios, err := behave.Parse(path)
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			total++
			out, err := behave.Run(ctx, tst, dir, s, nil)
			if err != nil {
				return err
			}
			if out.Passed() {
				fmt.Printf("%s %s\n", color.GreenString("PASS"), s.Name)
				continue
			}
			failed++
			fmt.Printf("%s %s\n", color.RedString("FAIL"), s.Name)
			for _, m := range out.Mismatches {
				fmt.Printf("     %s\n", m)
			}
		}
	}

	fmt.Printf("%d scenarios, %d failed\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("%d scenarios failed", failed)
	}
	return nil
}
