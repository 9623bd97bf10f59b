package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/programme-lv/judger/internal/gatherer/termgath"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/judge"
	"github.com/programme-lv/judger/internal/tester"
	"github.com/programme-lv/judger/internal/workspace"
	"github.com/urfave/cli/v3"
)

func gradeCommand() *cli.Command {
	return &cli.Command{
		Name:      "grade",
		Usage:     "grade one source file and print the progress",
		ArgsUsage: "<problem_id> <language> <source_file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the final job record as JSON"},
		},
		Action: grade,
	}
}

func grade(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 3 {
		return fmt.Errorf("expected <problem_id> <language> <source_file>")
	}
	problemID, err := parseUint32(cmd.Args().Get(0), "problem id")
	if err != nil {
		return err
	}
	code, err := os.ReadFile(cmd.Args().Get(2))
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

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
	ws, err := workspace.New(a.env.WorkspaceRoot)
	if err != nil {
		return err
	}

	term := termgath.New(os.Stdout)
	svc := judge.NewService(cat, jobs.NewRegistry(), tester.NewTester(ws, filestore.New(), a.logger), a.logger,
		func(*jobs.Job, string) tester.ResultGatherer { return term })

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	job, err := svc.Submit(ctx, jobs.Submission{
		SourceCode: string(code),
		Language:   cmd.Args().Get(1),
		ProblemID:  problemID,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewJob(job))
	}
	return nil
}
