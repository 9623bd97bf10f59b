package termgath

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
)

var (
	good = color.New(color.FgGreen, color.Bold)
	bad  = color.New(color.FgRed, color.Bold)
	warn = color.New(color.FgYellow, color.Bold)
	dim  = color.New(color.Faint)
)

// TerminalGatherer prints a human readable progress log of one job run.
type TerminalGatherer struct {
	w         io.Writer
	startedAt time.Time
}

func New(w io.Writer) *TerminalGatherer {
	return &TerminalGatherer{w: w, startedAt: time.Now()}
}

func (t *TerminalGatherer) StartJob(job jobs.Job) {
	t.startedAt = time.Now()
	fmt.Fprintf(t.w, "== Job %d: problem %d (%s), %d cases ==\n",
		job.ID, job.Problem.ID, job.Language.Name, len(job.Problem.Cases))
}

func (t *TerminalGatherer) StartCompile() {
	dim.Fprintln(t.w, "-- Compilation started --")
}

func (t *TerminalGatherer) FinishCompile(data *runner.Metrics) {
	dim.Fprintln(t.w, "-- Compilation finished --")
	if data != nil {
		fmt.Fprintf(t.w, "exit=%d wall=%dms mem=%dKiB\n",
			data.ExitCode, data.WallTime.Milliseconds(), data.PeakRssBytes/1024)
	}
}

func (t *TerminalGatherer) ReachCase(index int, c catalog.Case) {
	fmt.Fprintf(t.w, "-> Case %d (limit %s)\n", index, c.TimeLimitDuration())
}

func (t *TerminalGatherer) FinishCase(res jobs.CaseResult) {
	fmt.Fprintf(t.w, "<- Case %d: ", res.Index)
	verdictColor(res.Verdict).Fprint(t.w, api.VerdictName(res.Verdict))
	fmt.Fprintf(t.w, " time=%s mem=%dKiB", res.Time.Round(time.Millisecond), res.Memory/1024)
	if res.Info != "" {
		fmt.Fprintf(t.w, " (%s)", res.Info)
	}
	fmt.Fprintln(t.w)
}

func (t *TerminalGatherer) CompileError(msg string) {
	bad.Fprintln(t.w, "== Compilation error ==")
	fmt.Fprintln(t.w, msg)
}

func (t *TerminalGatherer) InternalError(msg string) {
	warn.Fprintf(t.w, "== Internal error: %s ==\n", msg)
}

func (t *TerminalGatherer) FinishNoError(result statuses.Verdict) {
	dur := time.Since(t.startedAt).Round(time.Millisecond)
	fmt.Fprint(t.w, "== Result: ")
	verdictColor(result).Fprint(t.w, api.VerdictName(result))
	fmt.Fprintf(t.w, " in %s ==\n", dur)
}

func verdictColor(v statuses.Verdict) *color.Color {
	switch v {
	case statuses.Accepted:
		return good
	case statuses.TimeLimitExceeded, statuses.MemoryLimitExceeded:
		return warn
	default:
		return bad
	}
}
