package natsgath

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/logging"
	"github.com/programme-lv/judger/internal/runner"
	"github.com/programme-lv/judger/internal/statuses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subj string, data []byte) error {
	f.msgs = append(f.msgs, published{subj, data})
	return f.err
}

func TestTrimStrToRect(t *testing.T) {
	assert.Equal(t, "", trimStrToRect("", 2, 3))
	assert.Equal(t, "ab\ncd", trimStrToRect("ab\ncd", 2, 3))
	assert.Equal(t, "abc[...]\nd\n[...]", trimStrToRect("abcdef\nd\ne", 2, 3))
}

func TestStreamsEventsToJobSubject(t *testing.T) {
	pub := &fakePublisher{}
	g := New(pub, "judger.jobs", 7, "run-1", logging.Discard())

	j := jobs.New(7, jobs.Submission{}, catalog.Problem{ID: 2, Cases: make([]catalog.Case, 3)},
		catalog.Language{Name: "C++"}, time.Now())
	g.StartJob(j)
	g.StartCompile()
	g.FinishCompile(&runner.Metrics{WallTime: 1500 * time.Millisecond, PeakRssBytes: 2048})
	g.ReachCase(0, catalog.Case{TimeLimit: 1000})
	g.FinishCase(jobs.CaseResult{Index: 0, Verdict: statuses.WrongAnswer, Info: strings.Repeat("x", 200)})
	g.FinishNoError(statuses.WrongAnswer)

	require.Len(t, pub.msgs, 6)
	for _, m := range pub.msgs {
		assert.Equal(t, "judger.jobs.7", m.subject)
	}

	var start api.StartJob
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &start))
	assert.Equal(t, api.StartJobMsg, start.MsgType)
	assert.Equal(t, "run-1", start.RunID)
	assert.Equal(t, 3, start.CaseCount)

	var compiled api.FinishCompile
	require.NoError(t, json.Unmarshal(pub.msgs[2].data, &compiled))
	assert.Equal(t, int64(1500), compiled.RunData.WallMillis)
	assert.Equal(t, int64(2), compiled.RunData.RamKiBytes)

	var fin api.FinishCase
	require.NoError(t, json.Unmarshal(pub.msgs[4].data, &fin))
	assert.Equal(t, "Wrong Answer", fin.Case.Result)
	assert.Len(t, fin.Case.Info, api.MaxTextWidth+len("[...]"))

	var done api.FinishJob
	require.NoError(t, json.Unmarshal(pub.msgs[5].data, &done))
	assert.Equal(t, api.FinishJobMsg, done.MsgType)
	assert.Equal(t, "Wrong Answer", done.Result)
	assert.Nil(t, done.ErrorMessage)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats: connection closed")}
	g := New(pub, "judger.jobs", 1, "r", logging.Discard())
	g.InternalError("boom")
	require.Len(t, pub.msgs, 1)

	var done api.FinishJob
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &done))
	assert.True(t, done.InternalError)
	assert.Equal(t, "boom", *done.ErrorMessage)
}
