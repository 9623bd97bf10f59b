package sqsgath_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/gatherer/sqsgath"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/logging"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	inputs []*sqs.SendMessageInput
}

func (f *fakeSender) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sqs.SendMessageOutput{}, nil
}

func TestSendsFinalRecordOnly(t *testing.T) {
	sender := &fakeSender{}
	j := jobs.New(4, jobs.Submission{Language: "C++", ProblemID: 1}, catalog.Problem{ID: 1},
		catalog.Language{Name: "C++"}, time.Now())
	g := sqsgath.New(sender, "https://sqs.example/q", &j, "run-9", logging.Discard())

	g.StartJob(j)
	g.StartCompile()
	j.State = statuses.Finished
	j.Result = statuses.CompilationError
	g.CompileError("main.cpp:1: error")

	require.Len(t, sender.inputs, 1)
	in := sender.inputs[0]
	assert.Equal(t, "https://sqs.example/q", *in.QueueUrl)
	assert.Equal(t, "Compilation Error", *in.MessageAttributes["result"].StringValue)

	var msg sqsgath.FinishedJob
	require.NoError(t, json.Unmarshal([]byte(*in.MessageBody), &msg))
	assert.Equal(t, "run-9", msg.RunID)
	assert.Equal(t, uint32(4), msg.Job.ID)
	assert.Equal(t, "Finished", msg.Job.State)
}
