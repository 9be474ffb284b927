package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Build errors
const (
	// ErrCodeCompositionFailure indicates a flow generator failed while composing the hierarchy.
	ErrCodeCompositionFailure ErrorCode = "COMPOSITION_FAILURE"
	// ErrCodeCheckpointNotFound indicates a starting checkpoint names no substep of its step.
	ErrCodeCheckpointNotFound ErrorCode = "CHECKPOINT_NOT_FOUND"
	// ErrCodeExternalTool indicates the external tool exited with a nonzero status.
	ErrCodeExternalTool ErrorCode = "EXTERNAL_TOOL_FAILURE"
	// ErrCodeScriptIO indicates a script or checkpoint file could not be written.
	ErrCodeScriptIO ErrorCode = "SCRIPT_IO_FAILURE"
	// ErrCodeCanceled indicates the run was interrupted before the step finished.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Input errors
const (
	// ErrCodeNotFound indicates a named node, substep or file was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrCodeInternal indicates an unexpected internal error.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// resumableCodes lists the failures a later invocation can recover from by
// starting the failed step at a checkpoint.
var resumableCodes = map[ErrorCode]bool{
	ErrCodeExternalTool: true,
	ErrCodeCanceled:     true,
}

// IsResumableCode returns true if the error code describes a failure that a
// later run can resume past with a starting checkpoint.
func IsResumableCode(code ErrorCode) bool {
	return resumableCodes[code]
}
