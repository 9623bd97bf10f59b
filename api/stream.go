package api

import (
	"time"

	"github.com/programme-lv/judger/internal/runner"
)

// MsgType is a message type for streaming responses
type MsgType string

const (
	StartJobMsg      MsgType = "job_start"
	StartCompileMsg  MsgType = "compile_start"
	FinishCompileMsg MsgType = "compile_finish"
	ReachCaseMsg     MsgType = "case_reach"
	FinishCaseMsg    MsgType = "case_finish"
	FinishJobMsg     MsgType = "job_finish"
)

// Size bounds of text carried in stream messages.
const (
	MaxTextHeight = 40
	MaxTextWidth  = 80
)

// Header is the common header for all streaming messages
type Header struct {
	JobID   uint32  `json:"job_id"`
	RunID   string  `json:"run_id"`
	MsgType MsgType `json:"msg_type"`
}

// RunData describes a finished child process.
type RunData struct {
	ExitCode   int   `json:"exit"`
	ExitSignal *int  `json:"signal"`
	TimedOut   bool  `json:"timed_out"`
	WallMillis int64 `json:"wall_ms"`
	RamKiBytes int64 `json:"ram_kib"`
}

type StartJob struct {
	Header
	ProblemID   uint32 `json:"problem_id"`
	Language    string `json:"language"`
	CaseCount   int    `json:"case_count"`
	StartedTime string `json:"started_time"`
}

type StartCompile struct {
	Header
}

type FinishCompile struct {
	Header
	RunData *RunData `json:"run_data"`
}

type ReachCase struct {
	Header
	CaseID int `json:"case_id"`
	// TimeLimit is in microseconds, MemoryLimit in bytes.
	TimeLimit   uint64 `json:"time_limit"`
	MemoryLimit uint64 `json:"memory_limit"`
}

type FinishCase struct {
	Header
	Case CaseResult `json:"case"`
}

type FinishJob struct {
	Header
	Result        string  `json:"result"`
	ErrorMessage  *string `json:"error_message"`
	CompileError  bool    `json:"compile_error"`
	InternalError bool    `json:"internal_error"`
}

func NewHeader(jobID uint32, runID string, msgType MsgType) Header {
	return Header{JobID: jobID, RunID: runID, MsgType: msgType}
}

func NewStartJob(h Header, problemID uint32, language string, caseCount int) StartJob {
	h.MsgType = StartJobMsg
	return StartJob{
		Header:      h,
		ProblemID:   problemID,
		Language:    language,
		CaseCount:   caseCount,
		StartedTime: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewStartCompile(h Header) StartCompile {
	h.MsgType = StartCompileMsg
	return StartCompile{Header: h}
}

func NewFinishCompile(h Header, data *RunData) FinishCompile {
	h.MsgType = FinishCompileMsg
	return FinishCompile{Header: h, RunData: data}
}

func NewReachCase(h Header, caseID int, timeLimit, memoryLimit uint64) ReachCase {
	h.MsgType = ReachCaseMsg
	return ReachCase{Header: h, CaseID: caseID, TimeLimit: timeLimit, MemoryLimit: memoryLimit}
}

func NewFinishCase(h Header, c CaseResult) FinishCase {
	h.MsgType = FinishCaseMsg
	return FinishCase{Header: h, Case: c}
}

func NewFinishJob(h Header, result string, errorMessage *string, compileError, internalError bool) FinishJob {
	h.MsgType = FinishJobMsg
	return FinishJob{
		Header:        h,
		Result:        result,
		ErrorMessage:  errorMessage,
		CompileError:  compileError,
		InternalError: internalError,
	}
}

func NewRunData(m *runner.Metrics) *RunData {
	if m == nil {
		return nil
	}
	d := &RunData{
		ExitCode:   m.ExitCode,
		TimedOut:   m.TimedOut,
		WallMillis: m.WallTime.Milliseconds(),
		RamKiBytes: m.PeakRssBytes / 1024,
	}
	if m.Signal != 0 {
		sig := int(m.Signal)
		d.ExitSignal = &sig
	}
	return d
}
