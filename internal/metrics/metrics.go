package metrics

import (
	"time"

	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	JobsTotal       *prometheus.CounterVec
	CasesTotal      *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec
	CompileDuration prometheus.Histogram
	JobsInflight    prometheus.Gauge
	RegistrySize    prometheus.GaugeFunc

	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the judger collectors and registers them with reg. registrySize
// is sampled on every scrape.
func New(reg prometheus.Registerer, registrySize func() int) *Metrics {
	m := &Metrics{
		JobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judger_jobs_total",
				Help: "Pipeline runs by final result",
			},
			[]string{"language", "result"},
		),
		CasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judger_cases_total",
				Help: "Graded cases by verdict",
			},
			[]string{"verdict"},
		),
		JobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judger_job_duration_seconds",
				Help:    "Wall time of a whole pipeline run",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"language"},
		),
		CompileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "judger_compile_duration_seconds",
				Help:    "Wall time of the compiler process",
				Buckets: prometheus.DefBuckets,
			},
		),
		JobsInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "judger_jobs_inflight",
				Help: "Pipeline runs currently executing",
			},
		),
		RegistrySize: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "judger_registry_jobs",
				Help: "Job records held in the registry",
			},
			func() float64 { return float64(registrySize()) },
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(
		m.JobsTotal,
		m.CasesTotal,
		m.JobDuration,
		m.CompileDuration,
		m.JobsInflight,
		m.RegistrySize,
		m.RequestTotal,
		m.RequestDuration,
	)
	return m
}

// Gatherer returns a pipeline event sink recording one run.
func (m *Metrics) Gatherer() *metricsGatherer {
	return &metricsGatherer{m: m}
}

type metricsGatherer struct {
	m        *Metrics
	language string
	started  time.Time
}

func (g *metricsGatherer) StartJob(job jobs.Job) {
	g.language = job.Language.Name
	g.started = time.Now()
	g.m.JobsInflight.Inc()
}

func (g *metricsGatherer) StartCompile() {}

func (g *metricsGatherer) FinishCompile(data *runner.Metrics) {
	if data != nil {
		g.m.CompileDuration.Observe(data.WallTime.Seconds())
	}
}

func (g *metricsGatherer) ReachCase(int, catalog.Case) {}

func (g *metricsGatherer) FinishCase(res jobs.CaseResult) {
	g.m.CasesTotal.WithLabelValues(api.VerdictName(res.Verdict)).Inc()
}

func (g *metricsGatherer) CompileError(string) {
	g.finish(statuses.CompilationError)
}

func (g *metricsGatherer) InternalError(string) {
	g.finish(statuses.SystemError)
}

func (g *metricsGatherer) FinishNoError(result statuses.Verdict) {
	g.finish(result)
}

func (g *metricsGatherer) finish(result statuses.Verdict) {
	g.m.JobsInflight.Dec()
	g.m.JobsTotal.WithLabelValues(g.language, api.VerdictName(result)).Inc()
	g.m.JobDuration.WithLabelValues(g.language).Observe(time.Since(g.started).Seconds())
}
