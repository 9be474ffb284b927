package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.Resumable {
		t.Error("NOT_FOUND should not be resumable")
	}
}

func TestAppError_New_Resumable(t *testing.T) {
	err := New(ErrCodeExternalTool, "tool died")
	if !err.Resumable {
		t.Error("EXTERNAL_TOOL_FAILURE should be resumable")
	}
}

func TestCompositionFailure(t *testing.T) {
	cause := fmt.Errorf("missing fulladder.v")
	err := CompositionFailure("fulladder", cause)
	if err.Code != ErrCodeCompositionFailure {
		t.Errorf("expected COMPOSITION_FAILURE, got %s", err.Code)
	}
	if err.Details["node"] != "fulladder" {
		t.Errorf("expected node=fulladder, got %v", err.Details["node"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if err.Resumable {
		t.Error("composition failures are not resumable")
	}
}

func TestCheckpointNotFound(t *testing.T) {
	err := CheckpointNotFound("decoder.syn", "syn_map")
	if err.Code != ErrCodeCheckpointNotFound {
		t.Errorf("expected CHECKPOINT_NOT_FOUND, got %s", err.Code)
	}
	if err.Details["checkpoint"] != "syn_map" {
		t.Errorf("expected checkpoint=syn_map, got %v", err.Details["checkpoint"])
	}
	if !strings.Contains(err.Message, "decoder.syn") {
		t.Errorf("expected message to name the step, got %q", err.Message)
	}
}

func TestExternalToolFailure(t *testing.T) {
	err := ExternalToolFailure("decoder.par", "innovus", 3, nil)
	if err.Code != ErrCodeExternalTool {
		t.Errorf("expected EXTERNAL_TOOL_FAILURE, got %s", err.Code)
	}
	if err.Details["exit_code"] != 3 {
		t.Errorf("expected exit_code=3, got %v", err.Details["exit_code"])
	}
	if !err.Resumable {
		t.Error("tool failures should be resumable")
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}

func TestScriptIOFailure(t *testing.T) {
	cause := fmt.Errorf("read-only file system")
	err := ScriptIOFailure("decoder.syn", "/ro/syn.tcl", cause)
	if err.Code != ErrCodeScriptIO {
		t.Errorf("expected SCRIPT_IO_FAILURE, got %s", err.Code)
	}
	if err.Details["path"] != "/ro/syn.tcl" {
		t.Errorf("expected path detail, got %v", err.Details["path"])
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestAppError_NotFound_EmptyName(t *testing.T) {
	err := NotFound("target", "")
	if _, ok := err.Details["name"]; ok {
		t.Error("expected no 'name' key in details when name is empty")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("substep", "syn_opt").WithDetails(map[string]any{
		"step": "decoder.syn",
	})
	if err.Details["step"] != "decoder.syn" {
		t.Errorf("expected step in details")
	}
	if err.Details["resource"] != "substep" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		resumable bool
	}{
		{"CompositionFailure", CompositionFailure("top", nil), ErrCodeCompositionFailure, false},
		{"CheckpointNotFound", CheckpointNotFound("top.syn", "x"), ErrCodeCheckpointNotFound, false},
		{"ExternalToolFailure", ExternalToolFailure("top.syn", "genus", 1, nil), ErrCodeExternalTool, true},
		{"ScriptIOFailure", ScriptIOFailure("top.syn", "syn.tcl", nil), ErrCodeScriptIO, false},
		{"Canceled", Canceled("top.par", nil), ErrCodeCanceled, true},
		{"NotFound", NotFound("target", "top.lvs"), ErrCodeNotFound, false},
		{"InvalidInput", InvalidInput("index", "out of range"), ErrCodeInvalidInput, false},
		{"MissingField", MissingField("name"), ErrCodeMissingField, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, false},
		{"Internal", Internal(nil), ErrCodeInternal, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Resumable != tc.resumable {
				t.Errorf("expected resumable=%v, got %v", tc.resumable, tc.err.Resumable)
			}
		})
	}
}

func TestAppError_AsAppError_Wrapped(t *testing.T) {
	appErr := CheckpointNotFound("a", "b")
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got != appErr {
		t.Error("expected the original AppError")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError for wrapped AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError to be false for plain error")
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("run: %w", ExternalToolFailure("s", "bash", 2, nil))
	if !IsCode(err, ErrCodeExternalTool) {
		t.Error("expected IsCode to match through wrapping")
	}
	if IsCode(err, ErrCodeScriptIO) {
		t.Error("expected IsCode to reject a different code")
	}
	if IsCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected IsCode to be false for plain errors")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NotFound("target", "x")
	if Wrap(fmt.Errorf("outer: %w", orig)) != orig {
		t.Error("Wrap should return the wrapped AppError")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("expected INTERNAL_ERROR wrapping the plain error, got %+v", got)
	}
}

func TestDiagnostic(t *testing.T) {
	fields := Diagnostic(ExternalToolFailure("top.par", "innovus", 7, nil))
	if fields["code"] != "EXTERNAL_TOOL_FAILURE" {
		t.Errorf("expected code field, got %v", fields["code"])
	}
	if fields["exit_code"] != 7 {
		t.Errorf("expected exit_code=7, got %v", fields["exit_code"])
	}
	if fields["step"] != "top.par" {
		t.Errorf("expected step field, got %v", fields["step"])
	}

	plain := Diagnostic(fmt.Errorf("boom"))
	if len(plain) != 1 || plain["error"] != "boom" {
		t.Errorf("expected only the error field, got %v", plain)
	}
}
