package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "sibling gap must be >= 0, got %g", -1.5)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "sibling gap must be >= 0, got -1.5" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeUnknownNode, "no node with id %q", "t1"),
			want: `UNKNOWN_NODE: no node with id "t1"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidDocument, fmt.Errorf("unexpected EOF"), "parse tree.json"),
			want: "INVALID_DOCUMENT: parse tree.json: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(ErrCodeBadStructure, cause, "cycle detected")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeBadStructure, "cycle detected at depth 3")

	if !Is(err, ErrCodeBadStructure) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeUnknownNode) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeBadStructure) {
		t.Error("Is should not match a non-Error")
	}

	// Code matching should survive wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("layout: %w", err)
	if !Is(wrapped, ErrCodeBadStructure) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidFormat, "bad format")); got != ErrCodeInvalidFormat {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidFormat)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode for plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "level gap must be positive")
	if got := UserMessage(err); got != "level gap must be positive" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid", id: "np-subject", wantErr: false},
		{name: "valid with dots", id: "0.1.2", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "whitespace", id: "np subject", wantErr: true},
		{name: "control char", id: "np\x01", wantErr: true},
		{name: "too long", id: string(make([]byte, 200)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	if err := ValidateLabel("Dürfen\nwir"); err != nil {
		t.Errorf("multi-line unicode label should be valid: %v", err)
	}
	if err := ValidateLabel("bad\x00label"); err == nil {
		t.Error("null byte in label should be rejected")
	}
}
