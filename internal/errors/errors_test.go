package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(EmitFailed, "write vertex", stderrors.New("disk full"))

	msg := err.Error()
	if !strings.Contains(msg, "EMIT_FAILED") {
		t.Errorf("error string should contain code: %s", msg)
	}
	if !strings.Contains(msg, "disk full") {
		t.Errorf("error string should contain cause: %s", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := New(InternalError, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestSuggestedFixes(t *testing.T) {
	err := New(InvalidConfig, "bad config", nil)
	if len(err.SuggestedFixes) == 0 {
		t.Error("InvalidConfig should carry a suggested fix")
	}

	err = New(EmitFailed, "write", nil)
	if len(err.SuggestedFixes) != 0 {
		t.Error("EmitFailed has no canned fixes")
	}
}
