package behave

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/programme-lv/judger/internal/tester"
)

// Outcome is the result of running one scenario.
type Outcome struct {
	Name       string
	Job        jobs.Job
	Mismatches []string
}

func (o Outcome) Passed() bool {
	return len(o.Mismatches) == 0
}

// Run writes the scenario's case files under dir, grades the code and
// compares the result with the expectation. Only infrastructure failures
// while preparing files are returned as errors.
func Run(ctx context.Context, tst *tester.Tester, dir string, s Scenario, gath tester.ResultGatherer) (Outcome, error) {
	caseDir := filepath.Join(dir, uuid.NewString())
	if err := os.MkdirAll(caseDir, 0755); err != nil {
		return Outcome{}, fmt.Errorf("failed to create case directory: %w", err)
	}
	defer os.RemoveAll(caseDir)

	problem := catalog.Problem{Name: s.Name, Type: s.Type}
	for i, c := range s.Cases {
		in := filepath.Join(caseDir, fmt.Sprintf("%d.in", i))
		ans := filepath.Join(caseDir, fmt.Sprintf("%d.ans", i))
		if err := os.WriteFile(in, []byte(c.In), 0644); err != nil {
			return Outcome{}, fmt.Errorf("failed to write case input: %w", err)
		}
		if err := os.WriteFile(ans, []byte(c.Ans), 0644); err != nil {
			return Outcome{}, fmt.Errorf("failed to write case answer: %w", err)
		}
		problem.Cases = append(problem.Cases, catalog.Case{
			Score:       c.Score,
			InputFile:   in,
			AnswerFile:  ans,
			TimeLimit:   c.TimeLimit,
			MemoryLimit: c.MemoryLimit,
		})
	}

	job := jobs.New(0, jobs.Submission{SourceCode: s.Code, Language: s.Language.Name},
		problem, s.Language, time.Now())
	if gath == nil {
		gath = tester.Gatherers()
	}
	// the error is already reflected in the job state
	_ = tst.Evaluate(ctx, &job, gath)

	return Outcome{Name: s.Name, Job: job, Mismatches: compare(s, job)}, nil
}

func compare(s Scenario, job jobs.Job) []string {
	var res []string
	if job.State == statuses.Canceled {
		res = append(res, "job was canceled")
	}
	if job.Result != s.Result {
		res = append(res, fmt.Sprintf("result: expected %s, got %s",
			api.VerdictName(s.Result), api.VerdictName(job.Result)))
	}
	if s.Result == statuses.CompilationError && len(job.Cases) > 0 {
		res = append(res, fmt.Sprintf("expected no case results, got %d", len(job.Cases)))
	}
	if s.Verdicts == nil || s.Result == statuses.CompilationError {
		return res
	}
	if len(job.Cases) != len(s.Verdicts) {
		return append(res, fmt.Sprintf("expected %d case results, got %d", len(s.Verdicts), len(job.Cases)))
	}
	for i, want := range s.Verdicts {
		if got := job.Cases[i].Verdict; got != want {
			res = append(res, fmt.Sprintf("case %d: expected %s, got %s",
				i, api.VerdictName(want), api.VerdictName(got)))
		}
	}
	return res
}
