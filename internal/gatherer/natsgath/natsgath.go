package natsgath

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Connect dials the NATS server used for live job events.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("judger"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return nc, nil
}

type natsGatherer struct {
	pub     Publisher
	subject string
	header  api.Header
	logger  *slog.Logger
}

// New creates a gatherer streaming the events of one job run to <prefix>.<job_id>.
func New(pub Publisher, prefix string, jobID uint32, runID string, logger *slog.Logger) *natsGatherer {
	return &natsGatherer{
		pub:     pub,
		subject: fmt.Sprintf("%s.%d", prefix, jobID),
		header:  api.NewHeader(jobID, runID, ""),
		logger:  logger,
	}
}

func (s *natsGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal message", "error", err)
		return
	}
	if err := s.pub.Publish(s.subject, b); err != nil {
		s.logger.Warn("failed to publish message to nats", "subject", s.subject, "error", err)
	}
}

func (s *natsGatherer) StartJob(job jobs.Job) {
	s.send(api.NewStartJob(s.header, job.Problem.ID, job.Language.Name, len(job.Problem.Cases)))
}

func (s *natsGatherer) StartCompile() {
	s.send(api.NewStartCompile(s.header))
}

func (s *natsGatherer) FinishCompile(data *runner.Metrics) {
	s.send(api.NewFinishCompile(s.header, api.NewRunData(data)))
}

func (s *natsGatherer) ReachCase(index int, c catalog.Case) {
	s.send(api.NewReachCase(s.header, index, c.TimeLimit, c.MemoryLimit))
}

func (s *natsGatherer) FinishCase(res jobs.CaseResult) {
	c := api.NewCaseResult(res)
	c.Info = trimStrToRect(c.Info, api.MaxTextHeight, api.MaxTextWidth)
	s.send(api.NewFinishCase(s.header, c))
}

func (s *natsGatherer) CompileError(msg string) {
	msg = trimStrToRect(msg, api.MaxTextHeight, api.MaxTextWidth)
	s.send(api.NewFinishJob(s.header, api.VerdictName(statuses.CompilationError), &msg, true, false))
}

func (s *natsGatherer) InternalError(msg string) {
	s.send(api.NewFinishJob(s.header, api.VerdictName(statuses.SystemError), &msg, false, true))
}

func (s *natsGatherer) FinishNoError(result statuses.Verdict) {
	s.send(api.NewFinishJob(s.header, api.VerdictName(result), nil, false, false))
}
