package tester

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/programme-lv/judger/internal/workspace"
)

// maxCompileMsg bounds the compiler output kept for CompileError.
const maxCompileMsg = 16 * 1024

type Tester struct {
	ws     *workspace.Workspace
	files  *filestore.FileStore
	logger *slog.Logger

	// compileOutput receives the compiler's stdout and stderr.
	compileOutput io.Writer
	now           func() time.Time
}

func NewTester(ws *workspace.Workspace, files *filestore.FileStore, logger *slog.Logger) *Tester {
	return &Tester{
		ws:            ws,
		files:         files,
		logger:        logger,
		compileOutput: os.Stderr,
		now:           jobs.Now,
	}
}

func (t *Tester) SetCompileOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	t.compileOutput = w
}

// Evaluate runs the job through compilation and grading, mutating it in place.
// Grading outcomes are recorded on the job. Any other failure cancels the job
// with a SystemError result and is returned. Scratch files are always removed.
func (t *Tester) Evaluate(ctx context.Context, job *jobs.Job, gath ResultGatherer) (err error) {
	log := t.logger.With("job_id", job.ID, "problem_id", job.Problem.ID)
	paths := t.ws.Paths(job.Problem.ID, job.ID, job.Language.SourceExt())

	defer func() {
		log.Debug("Removing scratch files...")
		if cerr := workspace.Cleanup(paths); cerr != nil {
			log.Warn("failed to clean up scratch files", "error", cerr)
		}
		if err != nil {
			log.Error("evaluation failed", "error", err)
			job.Cancel(t.now())
			gath.InternalError(err.Error())
		}
	}()

	job.State = statuses.Running
	job.Result = statuses.Testing
	job.Cases = []jobs.CaseResult{}
	job.UpdatedTime = t.now()
	gath.StartJob(job.Clone())

	log.Info("Staging source file...", "path", paths.Source)
	if err := workspace.WriteSource(paths.Source, []byte(job.Submission.SourceCode)); err != nil {
		return fmt.Errorf("failed to stage source: %w", err)
	}
	for _, p := range []string{paths.Artifact, paths.Capture} {
		if err := workspace.Ensure(p); err != nil {
			return fmt.Errorf("failed to prepare scratch paths: %w", err)
		}
	}

	compiled, err := t.compile(ctx, log, job, paths, gath)
	if err != nil {
		return err
	}
	if !compiled {
		return nil
	}

	mode := job.Problem.CompareMode()
	for i, c := range job.Problem.Cases {
		gath.ReachCase(i, c)
		log.Info("Running case...", "case", i)
		res, err := t.runCase(ctx, []string{paths.Artifact}, paths.Capture, mode, c)
		if err != nil {
			return fmt.Errorf("failed to run case %d: %w", i, err)
		}
		res.Index = i
		log.Info("Case finished", "case", i, "verdict", res.Verdict, "time", res.Time)

		job.Cases = append(job.Cases, res)
		job.UpdatedTime = t.now()
		gath.FinishCase(res)
	}

	job.Result = aggregate(job.Cases)
	job.State = statuses.Finished
	job.UpdatedTime = t.now()
	log.Info("Evaluation finished", "result", job.Result)
	gath.FinishNoError(job.Result)
	return nil
}

func (t *Tester) compile(
	ctx context.Context,
	log *slog.Logger,
	job *jobs.Job,
	paths workspace.Paths,
	gath ResultGatherer,
) (bool, error) {
	argv := job.Language.BuildCommand(paths.Artifact, paths.Source)
	gath.StartCompile()
	log.Info("Compiling...", "command", strings.Join(argv, " "))

	var out bytes.Buffer
	w := io.MultiWriter(t.compileOutput, &out)
	m, err := runner.Run(ctx, runner.Cmd{Argv: argv, Stdout: w, Stderr: w})
	if err != nil {
		return false, fmt.Errorf("failed to run compiler: %w", err)
	}

	job.UpdatedTime = t.now()
	if !m.Success() {
		log.Info("Compilation failed", "exit_code", m.ExitCode)
		job.Result = statuses.CompilationError
		job.State = statuses.Finished
		gath.FinishCompile(m)
		gath.CompileError(compileMessage(out.Bytes(), m))
		return false, nil
	}

	job.Result = statuses.CompilationSuccess
	gath.FinishCompile(m)
	return true, nil
}

func compileMessage(out []byte, m *runner.Metrics) string {
	msg := strings.TrimSpace(string(out))
	if len(msg) > maxCompileMsg {
		msg = msg[:maxCompileMsg] + "[...]"
	}
	if msg == "" {
		if m.Signal != 0 {
			return fmt.Sprintf("compiler killed by signal %s", m.Signal)
		}
		return fmt.Sprintf("compiler exited with code %d", m.ExitCode)
	}
	return msg
}

// runCase executes one case. The returned error is an infrastructure fault;
// limit violations and mismatches are verdicts.
func (t *Tester) runCase(ctx context.Context, argv []string, capture, mode string, c catalog.Case) (jobs.CaseResult, error) {
	in, err := filestore.Open(c.InputFile)
	if err != nil {
		return jobs.CaseResult{}, err
	}
	defer in.Close()

	out, err := os.Create(capture)
	if err != nil {
		return jobs.CaseResult{}, fmt.Errorf("failed to create capture file: %w", err)
	}
	defer out.Close()

	m, err := runner.Run(ctx, runner.Cmd{
		Argv:      argv,
		Stdin:     in,
		Stdout:    out,
		TimeLimit: c.TimeLimitDuration(),
	})
	if err != nil {
		return jobs.CaseResult{}, err
	}

	res := jobs.CaseResult{Time: m.WallTime}
	if m.PeakRssBytes > 0 {
		res.Memory = uint64(m.PeakRssBytes)
	}

	switch {
	case m.TimedOut:
		res.Verdict = statuses.TimeLimitExceeded
		res.Info = fmt.Sprintf("killed after %s", c.TimeLimitDuration())
	case c.MemoryLimit > 0 && res.Memory > c.MemoryLimit:
		res.Verdict = statuses.MemoryLimitExceeded
		res.Info = fmt.Sprintf("peak memory %d bytes over limit %d", res.Memory, c.MemoryLimit)
	case m.Signal != 0:
		res.Verdict = statuses.RuntimeError
		res.Info = fmt.Sprintf("killed by signal %s", m.Signal)
	case m.ExitCode != 0:
		res.Verdict = statuses.RuntimeError
		res.Info = fmt.Sprintf("exit code %d", m.ExitCode)
	default:
		got, err := os.ReadFile(capture)
		if err != nil {
			return jobs.CaseResult{}, fmt.Errorf("failed to read captured output: %w", err)
		}
		want, err := t.files.Get(c.AnswerFile)
		if err != nil {
			return jobs.CaseResult{}, err
		}
		if outputsMatch(got, want, mode) {
			res.Verdict = statuses.Accepted
		} else {
			res.Verdict = statuses.WrongAnswer
		}
	}
	return res, nil
}

func aggregate(cases []jobs.CaseResult) statuses.Verdict {
	for _, c := range cases {
		if c.Verdict != statuses.Accepted {
			return statuses.WrongAnswer
		}
	}
	return statuses.Accepted
}
