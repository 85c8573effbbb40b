package domain

// StatusCode is the execution-service status taxonomy. The numeric values are
// part of the Judge0 wire contract and must not change.
type StatusCode int

const (
	StatusQueued                  StatusCode = 1
	StatusProcessing              StatusCode = 2
	StatusAccepted                StatusCode = 3
	StatusWrongAnswer             StatusCode = 4
	StatusTimeLimitExceeded       StatusCode = 5
	StatusCompileError            StatusCode = 6
	StatusRuntimeError            StatusCode = 7
	StatusInternalError           StatusCode = 8
	StatusWallTimeExceeded        StatusCode = 9
	StatusMemoryLimitExceeded     StatusCode = 10
	StatusRuntimeSignal           StatusCode = 11
	StatusRuntimeErrorNonZeroExit StatusCode = 12
)

var statusDescriptions = map[StatusCode]string{
	StatusQueued:                  "In Queue",
	StatusProcessing:              "Processing",
	StatusAccepted:                "Accepted",
	StatusWrongAnswer:             "Wrong Answer",
	StatusTimeLimitExceeded:       "Time Limit Exceeded",
	StatusCompileError:            "Compilation Error",
	StatusRuntimeError:            "Runtime Error",
	StatusInternalError:           "Internal Error",
	StatusWallTimeExceeded:        "Wall Time Limit Exceeded",
	StatusMemoryLimitExceeded:     "Memory Limit Exceeded",
	StatusRuntimeSignal:           "Runtime Signal",
	StatusRuntimeErrorNonZeroExit: "Runtime Error (Non-zero Exit)",
}

// IsTerminal returns true if the status represents a final state.
func (s StatusCode) IsTerminal() bool {
	return s != StatusQueued && s != StatusProcessing
}

// String returns the human-readable status description.
func (s StatusCode) String() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return "Unknown Status"
}

// Default execution limits, string-encoded on the wire.
const (
	DefaultCPUTimeLimitSec  = 2.0
	DefaultMemoryLimitKB    = 128000
	DefaultWallTimeLimitSec = 5.0
)

// ExecutionRequest is one unit of work for the execution service.
// Zero limits mean "use the default".
type ExecutionRequest struct {
	LanguageID     int
	SourceCode     string
	Stdin          string
	ExpectedOutput string
	CPUTimeLimit   float64 // seconds
	MemoryLimit    int     // kilobytes
	WallTimeLimit  float64 // seconds
}

// ExecutionHandle is the opaque token identifying one execution.
type ExecutionHandle string

// ExecutionResult is the execution service's view of one execution.
type ExecutionResult struct {
	Status        StatusCode
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
	TimeMs        int
	MemoryKB      int
}
