package api

import (
	"time"

	"github.com/programme-lv/judger/internal/jobs"
)

// TimeFormat is the UTC millisecond timestamp layout of job records.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// SubmitReq is the body of POST /jobs.
type SubmitReq struct {
	SourceCode string `json:"source_code"`
	Language   string `json:"language" binding:"required"`
	// pointer so that a missing id is distinguishable from problem 0
	ProblemID *uint32 `json:"problem_id" binding:"required"`
}

type Submission struct {
	SourceCode string `json:"source_code"`
	Language   string `json:"language"`
	ProblemID  uint32 `json:"problem_id"`
}

type CaseResult struct {
	ID     int    `json:"id"`
	Result string `json:"result"`
	// Time is in microseconds.
	Time uint64 `json:"time"`
	// Memory is in bytes.
	Memory uint64 `json:"memory"`
	Info   string `json:"info"`
}

type Job struct {
	ID          uint32       `json:"id"`
	CreatedTime string       `json:"created_time"`
	UpdatedTime string       `json:"updated_time"`
	Submission  Submission   `json:"submission"`
	State       string       `json:"state"`
	Result      string       `json:"result"`
	Score       float64      `json:"score"`
	Cases       []CaseResult `json:"cases"`
}

func NewJob(j jobs.Job) Job {
	cases := make([]CaseResult, 0, len(j.Cases))
	for _, c := range j.Cases {
		cases = append(cases, NewCaseResult(c))
	}
	return Job{
		ID:          j.ID,
		CreatedTime: FormatTime(j.CreatedTime),
		UpdatedTime: FormatTime(j.UpdatedTime),
		Submission: Submission{
			SourceCode: j.Submission.SourceCode,
			Language:   j.Submission.Language,
			ProblemID:  j.Submission.ProblemID,
		},
		State:  StateName(j.State),
		Result: VerdictName(j.Result),
		Score:  j.Score(),
		Cases:  cases,
	}
}

func NewJobs(js []jobs.Job) []Job {
	res := make([]Job, 0, len(js))
	for _, j := range js {
		res = append(res, NewJob(j))
	}
	return res
}

func NewCaseResult(c jobs.CaseResult) CaseResult {
	return CaseResult{
		ID:     c.Index,
		Result: VerdictName(c.Verdict),
		Time:   uint64(c.Time.Microseconds()),
		Memory: c.Memory,
		Info:   c.Info,
	}
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime accepts TimeFormat as well as RFC 3339.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

const (
	ReasonInvalidArgument = "ERR_INVALID_ARGUMENT"
	ReasonNotFound        = "ERR_NOT_FOUND"
	ReasonBusy            = "ERR_BUSY"
	ReasonInternal        = "ERR_INTERNAL"
)
