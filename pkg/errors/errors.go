package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the timetable command.
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitInput      = 2
	ExitInfeasible = 3
	ExitSolver     = 4
	ExitOutput     = 5
)

// Error represents a typed pipeline error carrying the process exit code.
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ExitCode int    `json:"exit_code"`
	Err      error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so wrapped clones still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, exitCode int, message string) *Error {
	return &Error{Code: code, ExitCode: exitCode, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, exitCode int, message string) *Error {
	return &Error{Code: code, ExitCode: exitCode, Message: message, Err: err}
}

// Predefined errors for the pipeline stages.
var (
	ErrInputNotFound  = New("INPUT_NOT_FOUND", ExitInput, "input workbook not found")
	ErrInputMalformed = New("INPUT_MALFORMED", ExitInput, "input workbook is malformed")
	ErrValidation     = New("VALIDATION_ERROR", ExitInput, "validation failed")
	ErrInfeasible     = New("INFEASIBLE", ExitInfeasible, "no feasible schedule exists")
	ErrSolver         = New("SOLVER_ERROR", ExitSolver, "integer solver failed")
	ErrOutput         = New("OUTPUT_ERROR", ExitOutput, "failed to write output workbook")
	ErrExport         = New("EXPORT_ERROR", ExitOutput, "failed to export schedule")
	ErrArchive        = New("ARCHIVE_ERROR", ExitOutput, "failed to archive schedule run")
	ErrInternal       = New("INTERNAL_ERROR", ExitInternal, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.ExitCode, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WrapAs wraps err using code and exit code of kind with an overridden message.
func WrapAs(kind *Error, err error, message string) *Error {
	if message == "" {
		message = kind.Message
	}
	return Wrap(err, kind.Code, kind.ExitCode, message)
}
