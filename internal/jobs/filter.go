package jobs

import (
	"time"

	"github.com/programme-lv/judger/internal/statuses"
)

// Filter selects jobs. Nil fields match everything; set fields are combined
// with AND. From and To are both inclusive bounds on CreatedTime.
type Filter struct {
	ProblemID *uint32
	Language  *string
	State     *statuses.State
	Result    *statuses.Verdict
	From      *time.Time
	To        *time.Time
}

func (f Filter) Matches(j *Job) bool {
	return matchOne(f.ProblemID, j.Problem.ID) &&
		matchOne(f.Language, j.Language.Name) &&
		matchOne(f.State, j.State) &&
		matchOne(f.Result, j.Result) &&
		f.matchTime(j.CreatedTime)
}

func (f Filter) matchTime(t time.Time) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

func matchOne[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}
