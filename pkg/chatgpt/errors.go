package chatgpt

import "fmt"

// FailureCode classifies automation failures for logging and wrapping.
type FailureCode string

const (
	// FailureLaunch means the app was not running and the launch attempt failed.
	FailureLaunch FailureCode = "LAUNCH_FAILED"
	// FailureAccess means the availability probe itself failed, usually a
	// missing accessibility permission for the calling process.
	FailureAccess FailureCode = "ACCESS_FAILED"
	// FailureInteraction means the ask or listing automation script failed.
	FailureInteraction FailureCode = "INTERACTION_FAILED"
)

// Error carries a failure code plus the underlying scripting-engine error.
type Error struct {
	Code   FailureCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("chatgpt: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("chatgpt: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code FailureCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
