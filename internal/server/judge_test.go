package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/programme-lv/judger/internal/jobs"
	"github.com/programme-lv/judger/internal/judge"
	"github.com/programme-lv/judger/internal/logging"
	"github.com/programme-lv/judger/internal/server"
	"github.com/programme-lv/judger/internal/tester"
	"github.com/programme-lv/judger/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJudgeRouter serves a real judge with one echo problem (id 0) and a
// shell language.
func newJudgeRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	ans := filepath.Join(dir, "ans")
	require.NoError(t, os.WriteFile(in, []byte("2\n"), 0644))
	require.NoError(t, os.WriteFile(ans, []byte("2\n"), 0644))

	cat, err := catalog.New(
		[]catalog.Problem{{ID: 0, Name: "echo", Cases: []catalog.Case{
			{Score: 100, InputFile: in, AnswerFile: ans, TimeLimit: 5_000_000},
		}}},
		[]catalog.Language{{
			Name:     "sh",
			FileName: "main.sh",
			Command:  []string{"/bin/sh", "-c", "cp %INPUT% %OUTPUT% && chmod +x %OUTPUT%"},
		}},
	)
	require.NoError(t, err)
	ws, err := workspace.New(filepath.Join(dir, "ws"))
	require.NoError(t, err)
	tst := tester.NewTester(ws, filestore.New(), logging.Discard())
	tst.SetCompileOutput(nil)

	svc := judge.NewService(cat, jobs.NewRegistry(), tst, logging.Discard())
	return server.NewRouter(svc, nil, nil, logging.Discard())
}

func submitBody(code string) string {
	b, _ := json.Marshal(map[string]any{"source_code": code, "language": "sh", "problem_id": 0})
	return string(b)
}

func TestCreatedTimeWindowIncludesJob(t *testing.T) {
	r := newJudgeRouter(t)

	for i := 0; i < 5; i++ {
		w := do(r, http.MethodPost, "/jobs", submitBody("#!/bin/sh\ncat\n"))
		require.Equal(t, http.StatusOK, w.Code)
		var job api.Job
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))

		ts := url.QueryEscape(job.CreatedTime)
		w = do(r, http.MethodGet, "/jobs?from="+ts+"&to="+ts, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list []api.Job
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

		ids := make([]uint32, 0, len(list))
		for _, j := range list {
			ids = append(ids, j.ID)
		}
		assert.Contains(t, ids, job.ID, "created_time %s", job.CreatedTime)
	}
}

func TestClientDisconnectDoesNotCancelJob(t *testing.T) {
	r := newJudgeRouter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(submitBody("#!/bin/sh\nsleep 1\ncat\n")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	w := do(r, http.MethodGet, "/jobs/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	var job api.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "Finished", job.State)
	assert.Equal(t, "Accepted", job.Result)
}
