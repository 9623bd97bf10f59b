package api

import (
	"fmt"

	"github.com/programme-lv/judger/internal/statuses"
)

var verdictNames = map[statuses.Verdict]string{
	statuses.Waiting:             "Waiting",
	statuses.Testing:             "Running",
	statuses.Accepted:            "Accepted",
	statuses.CompilationError:    "Compilation Error",
	statuses.CompilationSuccess:  "Compilation Success",
	statuses.WrongAnswer:         "Wrong Answer",
	statuses.RuntimeError:        "Runtime Error",
	statuses.TimeLimitExceeded:   "Time Limit Exceeded",
	statuses.MemoryLimitExceeded: "Memory Limit Exceeded",
	statuses.SystemError:         "System Error",
	statuses.SpjError:            "SPJ Error",
	statuses.Skipped:             "Skipped",
}

var stateNames = map[statuses.State]string{
	statuses.Queueing: "Queueing",
	statuses.Running:  "Running",
	statuses.Finished: "Finished",
	statuses.Canceled: "Canceled",
}

// VerdictName returns the display name used on the wire.
func VerdictName(v statuses.Verdict) string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return v.String()
}

func ParseVerdict(name string) (statuses.Verdict, error) {
	for v, n := range verdictNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown result %q", name)
}

func StateName(s statuses.State) string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return s.String()
}

func ParseState(name string) (statuses.State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}
