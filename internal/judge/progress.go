package judge

import (
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
)

// registrySync copies the job under evaluation back into the registry after
// every pipeline transition. Removed records stay removed.
type registrySync struct {
	registry *jobs.Registry
	job      *jobs.Job
}

func (r *registrySync) sync() {
	r.registry.Replace(*r.job)
}

func (r *registrySync) StartJob(jobs.Job)              { r.sync() }
func (r *registrySync) StartCompile()                  {}
func (r *registrySync) FinishCompile(*runner.Metrics)  { r.sync() }
func (r *registrySync) ReachCase(int, catalog.Case)    {}
func (r *registrySync) FinishCase(jobs.CaseResult)     { r.sync() }
func (r *registrySync) CompileError(string)            { r.sync() }
func (r *registrySync) InternalError(string)           { r.sync() }
func (r *registrySync) FinishNoError(statuses.Verdict) { r.sync() }
