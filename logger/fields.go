package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldTraceID    = "trace_id"
	FieldSpanID     = "span_id"
	FieldStep       = "step"
	FieldModule     = "module"
	FieldStage      = "stage"
	FieldSubstep    = "substep"
	FieldCheckpoint = "checkpoint"
	FieldTool       = "tool"
	FieldExitCode   = "exit_code"
	FieldWorkDir    = "work_dir"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("script written", logger.Fields("path", p, "substeps", 4))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// StepFields creates fields for a finished step.
func StepFields(step string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldStep:     step,
		FieldDuration: d.Milliseconds(),
	}
}

// ErrorFields creates fields for a step that failed.
func ErrorFields(step string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldStep:  step,
		FieldError: err.Error(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
