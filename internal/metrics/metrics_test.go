package metrics_test

import (
	"testing"
	"time"

	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/metrics"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGathererRecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	size := 3
	m := metrics.New(reg, func() int { return size })

	g := m.Gatherer()
	g.StartJob(jobs.New(0, jobs.Submission{}, catalog.Problem{}, catalog.Language{Name: "Rust"}, time.Now()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsInflight))

	g.FinishCompile(&runner.Metrics{WallTime: 200 * time.Millisecond})
	g.FinishCase(jobs.CaseResult{Verdict: statuses.Accepted})
	g.FinishCase(jobs.CaseResult{Verdict: statuses.TimeLimitExceeded})
	g.FinishNoError(statuses.WrongAnswer)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.JobsInflight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("Rust", "Wrong Answer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CasesTotal.WithLabelValues("Time Limit Exceeded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RegistrySize))

	size = 5
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RegistrySize))

	n, err := testutil.GatherAndCount(reg, "judger_compile_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInternalErrorCountsAsSystemError(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry(), func() int { return 0 })
	g := m.Gatherer()
	g.StartJob(jobs.Job{Language: catalog.Language{Name: "C"}})
	g.InternalError("spawn failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("C", "System Error")))
}
