package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeNotFound, "node %q", "feeder-7"), `NOT_FOUND: node "feeder-7"`},
		{"wrapped", Wrap(ErrCodeFileNotFound, errors.New("no such file"), "open %s", "ring.toml"),
			"FILE_NOT_FOUND: open ring.toml: no such file"},
		{"no args", New(ErrCodeUnsupported, "hcl output"), "UNSUPPORTED: hcl output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsChain(t *testing.T) {
	cause := errors.New("graphviz: syntax error")
	err := Wrap(ErrCodeRender, cause, "render step %d", 3)

	if err.Cause != cause || errors.Unwrap(err) != cause {
		t.Fatalf("cause not kept: %#v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	// A coded error survives fmt wrapping by callers.
	outer := fmt.Errorf("simulate: %w", err)
	if GetCode(outer) != ErrCodeRender {
		t.Errorf("GetCode(fmt-wrapped) = %q", GetCode(outer))
	}
}

func TestCodeLookup(t *testing.T) {
	nested := Wrap(ErrCodeExpectationFailed, New(ErrCodeInvalidInput, "bad node"), "step 4")

	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
	}{
		{"match", New(ErrCodeInvalidScenario, "no nodes"), ErrCodeInvalidScenario, true, ErrCodeInvalidScenario},
		{"other code", New(ErrCodeInvalidScenario, "no nodes"), ErrCodeInvalidFormat, false, ErrCodeInvalidScenario},
		{"outermost wins", nested, ErrCodeExpectationFailed, true, ErrCodeExpectationFailed},
		{"inner hidden", nested, ErrCodeInvalidInput, false, ErrCodeExpectationFailed},
		{"plain", errors.New("plain"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "cache.ttl must not be negative")); got != "cache.ttl must not be negative" {
		t.Errorf("coded message = %q", got)
	}
	if got := UserMessage(errors.New("connection refused")); got != "connection refused" {
		t.Errorf("plain message = %q", got)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"type mismatch", New(ErrCodeTypeMismatch, "kind lv into mv"), true},
		{"invariant violation", New(ErrCodeInvariantViolation, "orphan"), true},
		{"fatal under another code", Wrap(ErrCodeInternal, New(ErrCodeTypeMismatch, "inner"), "outer"), false},
		{"host misuse", New(ErrCodeInvalidInput, "already active"), false},
		{"plain", errors.New("plain"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromPanic(t *testing.T) {
	if FromPanic(nil) != nil {
		t.Error("FromPanic(nil) should return nil")
	}

	orig := New(ErrCodeInvariantViolation, "net-3 is split")
	if got := FromPanic(orig); got != orig {
		t.Errorf("FromPanic(error) = %v, want original error", got)
	}

	recovered := func() (err error) {
		defer func() { err = FromPanic(recover()) }()
		panic(fmt.Sprintf("index %d out of range", 7))
	}()
	if !Is(recovered, ErrCodeInternal) {
		t.Fatalf("recovered = %v", recovered)
	}
	if UserMessage(recovered) != "panic: index 7 out of range" {
		t.Errorf("message = %q", UserMessage(recovered))
	}
}
