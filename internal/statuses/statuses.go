package statuses

// State is the lifecycle position of a job.
type State int

const (
	Queueing State = iota
	Running
	Finished
	Canceled
)

var stateNames = [...]string{
	Queueing: "Queueing",
	Running:  "Running",
	Finished: "Finished",
	Canceled: "Canceled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "State(?)"
	}
	return stateNames[s]
}

// Verdict classifies the outcome of a job or of a single case.
type Verdict int

const (
	Waiting Verdict = iota
	// Testing is reported while the pipeline is compiling or grading.
	Testing
	Accepted
	CompilationError
	CompilationSuccess
	WrongAnswer
	RuntimeError
	TimeLimitExceeded
	MemoryLimitExceeded
	SystemError
	SpjError
	Skipped
)

var verdictNames = [...]string{
	Waiting:             "Waiting",
	Testing:             "Testing",
	Accepted:            "Accepted",
	CompilationError:    "CompilationError",
	CompilationSuccess:  "CompilationSuccess",
	WrongAnswer:         "WrongAnswer",
	RuntimeError:        "RuntimeError",
	TimeLimitExceeded:   "TimeLimitExceeded",
	MemoryLimitExceeded: "MemoryLimitExceeded",
	SystemError:         "SystemError",
	SpjError:            "SpjError",
	Skipped:             "Skipped",
}

func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return "Verdict(?)"
	}
	return verdictNames[v]
}

// Verdicts lists every verdict in declaration order.
func Verdicts() []Verdict {
	res := make([]Verdict, 0, len(verdictNames))
	for i := range verdictNames {
		res = append(res, Verdict(i))
	}
	return res
}

// States lists every state in declaration order.
func States() []State {
	return []State{Queueing, Running, Finished, Canceled}
}
