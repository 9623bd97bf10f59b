package judge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/tester"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	ErrProblemNotFound = errors.New("the problem does not exist")
	ErrJobBusy         = errors.New("the job is being evaluated")
)

// SinkFactory builds an additional gatherer for one pipeline run. job is the
// record being mutated by that run.
type SinkFactory func(job *jobs.Job, runID string) tester.ResultGatherer

// Service owns the job registry and runs submissions through the pipeline.
// Pipelines execute on the caller's goroutine.
type Service struct {
	catalog  *catalog.Catalog
	registry *jobs.Registry
	ids      jobs.IDAllocator
	tester   *tester.Tester
	sinks    []SinkFactory
	logger   *slog.Logger
	now      func() time.Time

	// inflight holds ids of jobs whose pipeline is running.
	inflight *xsync.MapOf[uint32, struct{}]
}

func NewService(
	cat *catalog.Catalog,
	registry *jobs.Registry,
	tst *tester.Tester,
	logger *slog.Logger,
	sinks ...SinkFactory,
) *Service {
	return &Service{
		catalog:  cat,
		registry: registry,
		tester:   tst,
		sinks:    sinks,
		logger:   logger,
		now:      jobs.Now,
		inflight: xsync.NewMapOf[uint32, struct{}](),
	}
}

// Submit creates a job for the submission and grades it. The returned record
// reflects the finished run even if the job was deleted in the meantime.
func (s *Service) Submit(ctx context.Context, sub jobs.Submission) (jobs.Job, error) {
	problem, ok := s.catalog.Problem(sub.ProblemID)
	if !ok {
		s.logger.Info("rejected submission", "problem_id", sub.ProblemID, "reason", "unknown problem")
		return jobs.Job{}, ErrProblemNotFound
	}
	lang, ok := s.catalog.Language(sub.Language)
	if !ok {
		s.logger.Info("rejected submission", "language", sub.Language, "reason", "unknown language")
		return jobs.Job{}, ErrProblemNotFound
	}

	job := jobs.New(s.ids.Next(), sub, problem, lang, s.now())
	s.inflight.Store(job.ID, struct{}{})
	defer s.inflight.Delete(job.ID)

	s.registry.Insert(job)
	s.logger.Info("job created", "job_id", job.ID, "problem_id", problem.ID, "language", lang.Name)

	job = s.run(ctx, job)
	if !s.registry.Replace(job) {
		s.logger.Warn("job deleted during evaluation, result not stored", "job_id", job.ID)
	}
	return job, nil
}

// Rerun grades an existing job again from scratch. CreatedTime is kept.
func (s *Service) Rerun(ctx context.Context, id uint32) (jobs.Job, error) {
	if _, busy := s.inflight.LoadOrStore(id, struct{}{}); busy {
		return jobs.Job{}, ErrJobBusy
	}
	defer s.inflight.Delete(id)

	ran := false
	job, err := s.registry.UpdateInPlace(id, func(job *jobs.Job) {
		ran = true
		job.Reset(s.now())
		s.registry.Replace(*job)
		*job = s.run(ctx, *job)
	})
	if errors.Is(err, jobs.ErrNotFound) && ran {
		s.logger.Warn("job deleted during evaluation, result not stored", "job_id", id)
		return job, nil
	}
	if err != nil {
		return jobs.Job{}, err
	}
	return job, nil
}

func (s *Service) List(f jobs.Filter) []jobs.Job {
	return s.registry.List(f)
}

func (s *Service) Get(id uint32) (jobs.Job, error) {
	job, ok := s.registry.Get(id)
	if !ok {
		return jobs.Job{}, jobs.ErrNotFound
	}
	return job, nil
}

// Delete removes the job record. A running pipeline is not interrupted but
// its result is discarded.
func (s *Service) Delete(id uint32) error {
	if !s.registry.Remove(id) {
		return jobs.ErrNotFound
	}
	s.logger.Info("job deleted", "job_id", id)
	return nil
}

func (s *Service) Registry() *jobs.Registry {
	return s.registry
}

// run evaluates a private copy of job, publishing progress to the registry.
func (s *Service) run(ctx context.Context, job jobs.Job) jobs.Job {
	runID := uuid.NewString()
	log := s.logger.With("job_id", job.ID, "run_id", runID)

	gs := []tester.ResultGatherer{&registrySync{registry: s.registry, job: &job}}
	for _, sink := range s.sinks {
		gs = append(gs, sink(&job, runID))
	}

	log.Info("Evaluating job...")
	if err := s.tester.Evaluate(ctx, &job, tester.Gatherers(gs...)); err != nil {
		log.Warn("job canceled", "error", err)
		return job
	}
	log.Info("Evaluated job", "state", job.State, "result", job.Result, "cases", len(job.Cases))
	return job
}
