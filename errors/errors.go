package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Resumable indicates a later run can continue from a checkpoint.
	Resumable bool `json:"resumable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic resumable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Resumable: IsResumableCode(code),
	}
}

// --- Build failure constructors ---

// CompositionFailure reports that the flow generator failed for a module
// while composing the hierarchy. No partial graph is produced.
func CompositionFailure(node string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCompositionFailure, Message: fmt.Sprintf("Composing the build plan for %q failed.", node),
		Details: map[string]any{"node": node}, Cause: cause,
	}
}

// CheckpointNotFound reports that a starting checkpoint names no substep of
// the step it was attached to.
func CheckpointNotFound(step, checkpoint string) *AppError {
	return &AppError{
		Code: ErrCodeCheckpointNotFound, Message: fmt.Sprintf("Step %q has no substep named %q to resume from.", step, checkpoint),
		Details: map[string]any{"step": step, "checkpoint": checkpoint},
	}
}

// ExternalToolFailure reports a nonzero exit of the external tool.
func ExternalToolFailure(step, tool string, exitCode int, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalTool, Message: fmt.Sprintf("Step %q: %s exited with status %d.", step, tool, exitCode),
		Resumable: true, Cause: cause,
		Details: map[string]any{"step": step, "tool": tool, "exit_code": exitCode},
	}
}

// ScriptIOFailure reports that a materialized script or checkpoint directory
// could not be written.
func ScriptIOFailure(step, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeScriptIO, Message: fmt.Sprintf("Step %q could not write %s.", step, path),
		Details: map[string]any{"step": step, "path": path}, Cause: cause,
	}
}

// Canceled reports that the run was interrupted while a step was pending.
func Canceled(step string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("Run interrupted at step %q.", step),
		Resumable: true, Details: map[string]any{"step": step}, Cause: cause,
	}
}

// --- Input constructors ---

// NotFound creates a new AppError for a named resource that was not found.
func NotFound(resource, name string) *AppError {
	details := map[string]any{"resource": resource}
	if name != "" {
		details["name"] = name
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s %q was not found.", resource, name),
		Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.", Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Diagnostic flattens an error into structured log fields: the code, the
// message and every detail. Plain errors yield only the "error" field.
func Diagnostic(err error) map[string]any {
	fields := map[string]any{"error": err.Error()}
	appErr, ok := AsAppError(err)
	if !ok {
		return fields
	}
	fields["code"] = string(appErr.Code)
	fields["resumable"] = appErr.Resumable
	for k, v := range appErr.Details {
		fields[k] = v
	}
	return fields
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as they are; other errors become INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
