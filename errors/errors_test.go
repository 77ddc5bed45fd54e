package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := InvalidSignature("main.Counter", 3)
	msg := err.Error()

	if !strings.Contains(msg, "[classify]") {
		t.Errorf("missing phase in %q", msg)
	}
	if !strings.Contains(msg, "invalid_signature") {
		t.Errorf("missing kind in %q", msg)
	}
	if !strings.Contains(msg, "main.Counter") {
		t.Errorf("missing callable in %q", msg)
	}
}

func TestError_PathInMessage(t *testing.T) {
	err := ConversionFailure([]string{"style", "color"}, "unsupported value")
	if !strings.Contains(err.Error(), "at style.color") {
		t.Errorf("missing path in %q", err.Error())
	}
}

func TestError_Is(t *testing.T) {
	err := ArityMismatch("f")

	if !stderrors.Is(err, Match(PhaseClassify, KindArityMismatch)) {
		t.Error("expected match on phase+kind")
	}
	if stderrors.Is(err, Match(PhaseClassify, KindInvalidSignature)) {
		t.Error("unexpected match on different kind")
	}
	if stderrors.Is(err, Match(PhaseIterate, KindArityMismatch)) {
		t.Error("unexpected match on different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(PhaseInvoke, KindInvalidInput, cause, "dispatch")

	if !stderrors.Is(err, cause) {
		t.Error("expected unwrap to reach cause")
	}
	if !strings.Contains(err.Error(), "caused by: boom") {
		t.Errorf("missing cause in %q", err.Error())
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseConvert, KindConversionFailure).
		Path("props", "onclick").
		Detail("value of type %s", "chan int").
		Build()

	if err.Phase != PhaseConvert || err.Kind != KindConversionFailure {
		t.Fatalf("builder lost phase/kind: %+v", err)
	}
	if !strings.Contains(err.Error(), "chan int") {
		t.Errorf("missing formatted detail in %q", err.Error())
	}
}
