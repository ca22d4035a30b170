// internal/errors/errors.go - coded errors for the media discovery engine
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode categorises failures surfaced by the engine
type ErrorCode string

const (
	CodeBrowserNotInitialized ErrorCode = "BROWSER_NOT_INITIALIZED"
	CodeBrowserLaunch         ErrorCode = "BROWSER_LAUNCH"
	CodeNavigation            ErrorCode = "NAVIGATION"
	CodeNavigationTimeout     ErrorCode = "NAVIGATION_TIMEOUT"
	CodeEvaluation            ErrorCode = "EVALUATION"
	CodeProbe                 ErrorCode = "PROBE"
	CodeInvalidConfig         ErrorCode = "INVALID_CONFIG"
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// GenericParseMessage is the only failure text a client of /parse ever sees
const GenericParseMessage = "Failed to parse URL"

// StructuredError carries a code, a technical message and the original cause
type StructuredError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Cause       error                  `json:"-"`
	UserMessage string                 `json:"user_message,omitempty"`
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error unwrapping
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is matches any StructuredError carrying the same code
func (e *StructuredError) Is(target error) bool {
	if se, ok := target.(*StructuredError); ok {
		return e.Code == se.Code
	}
	return false
}

// WithContext adds contextual information to the error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a StructuredError without a cause
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError around cause. A nil cause yields nil.
func Wrap(cause error, code ErrorCode, message string) error {
	if cause == nil {
		return nil
	}
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the outermost StructuredError in err's chain
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	if err == nil {
		return ""
	}
	return CodeInternal
}

// HasCode reports whether any error in err's chain carries code
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &StructuredError{Code: code})
}

// UserMessage returns the client-safe message for err. Technical detail is
// never included; the caller logs it separately.
func UserMessage(err error) string {
	var se *StructuredError
	if stderrors.As(err, &se) && se.UserMessage != "" {
		return se.UserMessage
	}
	return GenericParseMessage
}
