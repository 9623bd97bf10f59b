package tester

import (
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
)

// ResultGatherer receives pipeline events in order. Each event is emitted after
// the job passed to Evaluate has been updated, so a gatherer holding that job
// may read it from inside the callback.
type ResultGatherer interface {
	StartJob(job jobs.Job)

	StartCompile()
	FinishCompile(data *runner.Metrics)

	ReachCase(index int, c catalog.Case)
	FinishCase(res jobs.CaseResult)

	CompileError(msg string)
	InternalError(msg string)
	FinishNoError(result statuses.Verdict)
}

type multiGatherer []ResultGatherer

// Gatherers fans every event out to gs in the given order. Nil entries are skipped.
func Gatherers(gs ...ResultGatherer) ResultGatherer {
	res := make(multiGatherer, 0, len(gs))
	for _, g := range gs {
		if g != nil {
			res = append(res, g)
		}
	}
	return res
}

func (m multiGatherer) StartJob(job jobs.Job) {
	for _, g := range m {
		g.StartJob(job.Clone())
	}
}

func (m multiGatherer) StartCompile() {
	for _, g := range m {
		g.StartCompile()
	}
}

func (m multiGatherer) FinishCompile(data *runner.Metrics) {
	for _, g := range m {
		g.FinishCompile(data)
	}
}

func (m multiGatherer) ReachCase(index int, c catalog.Case) {
	for _, g := range m {
		g.ReachCase(index, c)
	}
}

func (m multiGatherer) FinishCase(res jobs.CaseResult) {
	for _, g := range m {
		g.FinishCase(res)
	}
}

func (m multiGatherer) CompileError(msg string) {
	for _, g := range m {
		g.CompileError(msg)
	}
}

func (m multiGatherer) InternalError(msg string) {
	for _, g := range m {
		g.InternalError(msg)
	}
}

func (m multiGatherer) FinishNoError(result statuses.Verdict) {
	for _, g := range m {
		g.FinishNoError(result)
	}
}
