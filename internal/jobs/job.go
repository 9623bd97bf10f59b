package jobs

import (
	"time"

	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/statuses"
)

// Submission is the immutable copy of the grading request.
type Submission struct {
	SourceCode string
	Language   string
	ProblemID  uint32
}

// CaseResult is the outcome of one graded case.
type CaseResult struct {
	Index   int
	Verdict statuses.Verdict
	// Time is the wall time of the run.
	Time time.Duration
	// Memory is the peak resident set size in bytes.
	Memory uint64
	Info   string
}

type Job struct {
	ID         uint32
	Submission Submission

	// Snapshots taken at creation; later catalog changes do not affect them.
	Language catalog.Language
	Problem  catalog.Problem

	State  statuses.State
	Result statuses.Verdict

	CreatedTime time.Time
	UpdatedTime time.Time

	Cases []CaseResult
}

// Precision is the resolution of job timestamps. The wire format carries
// milliseconds, so a timestamp read back from a job record equals the stored one.
const Precision = time.Millisecond

// Now returns the current time at Precision.
func Now() time.Time {
	return time.Now().Truncate(Precision)
}

func New(id uint32, sub Submission, problem catalog.Problem, language catalog.Language, now time.Time) Job {
	return Job{
		ID:          id,
		Submission:  sub,
		Language:    language.Clone(),
		Problem:     problem.Clone(),
		State:       statuses.Queueing,
		Result:      statuses.Waiting,
		CreatedTime: now.Truncate(Precision),
		UpdatedTime: now.Truncate(Precision),
		Cases:       []CaseResult{},
	}
}

// Clone returns a deep copy sharing no slices with j.
func (j Job) Clone() Job {
	j.Language = j.Language.Clone()
	j.Problem = j.Problem.Clone()
	j.Cases = append([]CaseResult{}, j.Cases...)
	return j
}

// Reset prepares the job for a fresh pipeline run. CreatedTime is kept.
func (j *Job) Reset(now time.Time) {
	j.State = statuses.Queueing
	j.Result = statuses.Waiting
	j.Cases = []CaseResult{}
	j.UpdatedTime = now.Truncate(Precision)
}

// Cancel marks the job as failed for infrastructure reasons.
func (j *Job) Cancel(now time.Time) {
	j.State = statuses.Canceled
	j.Result = statuses.SystemError
	j.UpdatedTime = now.Truncate(Precision)
}

// Score sums the scores of accepted cases.
func (j Job) Score() float64 {
	var score float64
	for _, c := range j.Cases {
		if c.Verdict == statuses.Accepted && c.Index < len(j.Problem.Cases) {
			score += j.Problem.Cases[c.Index].Score
		}
	}
	return score
}
