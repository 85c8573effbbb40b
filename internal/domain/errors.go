package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a required execution field is missing.
	ErrInvalidRequest = errors.New("invalid execution request: language and source code are required")

	// ErrInvalidLanguage is returned when an unsupported language is submitted.
	ErrInvalidLanguage = errors.New("invalid or unsupported language")

	// ErrEmptySourceCode is returned when source code is empty.
	ErrEmptySourceCode = errors.New("source code cannot be empty")

	// ErrPayloadTooLarge is returned when the source code exceeds the size limit.
	ErrPayloadTooLarge = errors.New("source code payload exceeds maximum size (1MB)")

	// ErrInvalidFilter is returned for an unknown submission history filter.
	ErrInvalidFilter = errors.New("invalid submission filter: result must be one of ACCEPTED, WRONG_ANSWER, ERROR or ALL")

	// ErrMissingUser is returned when no caller identity was supplied.
	ErrMissingUser = errors.New("authenticated user identity is required")

	// ErrServiceUnavailable is returned when the execution service is unreachable
	// or answers with a non-2xx status.
	ErrServiceUnavailable = errors.New("execution service unavailable")

	// ErrNotFound is returned when the execution service does not know a token.
	ErrNotFound = errors.New("execution not found")

	// ErrPollTimeout is returned when an execution did not reach a terminal
	// state within the polling budget.
	ErrPollTimeout = errors.New("submission timeout: maximum polling attempts reached")

	// ErrPersistenceFailure is returned when a submission cannot be stored.
	ErrPersistenceFailure = errors.New("failed to save submission")

	// ErrProblemNotFound is returned when a problem cannot be found by ID.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrNoTestCases is returned when a problem has nothing to judge against.
	ErrNoTestCases = errors.New("no test cases available for this problem")

	// ErrJobNotFound is returned when a judge job snapshot cannot be found.
	ErrJobNotFound = errors.New("judge job not found")

	// ErrPublishFailed is returned when the message broker publish fails.
	ErrPublishFailed = errors.New("failed to publish judge job to message queue")
)
