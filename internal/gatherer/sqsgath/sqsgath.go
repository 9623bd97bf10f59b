package sqsgath

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
)

const sendTimeout = 10 * time.Second

// Sender is satisfied by *sqs.Client.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

func NewClient(ctx context.Context, region string) (*sqs.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load aws sdk config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}

// FinishedJob is the body of a queue message.
type FinishedJob struct {
	RunID string  `json:"run_id"`
	Job   api.Job `json:"job"`
}

// sqsGatherer posts the final job record once a run ends. Intermediate
// events are ignored.
type sqsGatherer struct {
	client   Sender
	queueUrl string
	runID    string
	job      *jobs.Job
	logger   *slog.Logger
}

// New creates a gatherer reporting job to the queue. job must be the record
// the pipeline mutates.
func New(client Sender, queueUrl string, job *jobs.Job, runID string, logger *slog.Logger) *sqsGatherer {
	return &sqsGatherer{
		client:   client,
		queueUrl: queueUrl,
		runID:    runID,
		job:      job,
		logger:   logger,
	}
}

func (s *sqsGatherer) send() {
	b, err := json.Marshal(FinishedJob{RunID: s.runID, Job: api.NewJob(*s.job)})
	if err != nil {
		s.logger.Error("failed to marshal job", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"result": {
				DataType:    aws.String("String"),
				StringValue: aws.String(api.VerdictName(s.job.Result)),
			},
		},
	})
	if err != nil {
		s.logger.Warn("failed to send job to sqs", "job_id", s.job.ID, "error", err)
	}
}

func (s *sqsGatherer) StartJob(jobs.Job)             {}
func (s *sqsGatherer) StartCompile()                 {}
func (s *sqsGatherer) FinishCompile(*runner.Metrics) {}
func (s *sqsGatherer) ReachCase(int, catalog.Case)   {}
func (s *sqsGatherer) FinishCase(jobs.CaseResult)    {}

func (s *sqsGatherer) CompileError(string)            { s.send() }
func (s *sqsGatherer) InternalError(string)           { s.send() }
func (s *sqsGatherer) FinishNoError(statuses.Verdict) { s.send() }
