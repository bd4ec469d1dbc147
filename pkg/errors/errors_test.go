package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap nil error",
			err:      nil,
			msg:      "additional context",
			expected: "",
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			msg:      "additional context",
			expected: "additional context: original error",
		},
		{
			name:     "wrap sentinel",
			err:      ErrPackageNotFound,
			msg:      "libfoo",
			expected: "libfoo: package not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				if result != nil {
					t.Errorf("Expected nil, got %v", result)
				}
				return
			}
			if result.Error() != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result.Error())
			}
			if !errors.Is(result, tt.err) {
				t.Errorf("Expected wrapped error to contain original error")
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrRepositoryNotFound, "probing %s", "/repo")
	if err.Error() != "probing /repo: repository not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrRepositoryNotFound) {
		t.Errorf("expected wrapped sentinel")
	}
}

func TestToolError(t *testing.T) {
	err := NewToolError("wpkg", 2)
	if err.Error() != "wpkg exited with code 2" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var te *ToolError
	wrapped := Wrap(err, "install failed")
	if !errors.As(wrapped, &te) {
		t.Fatalf("expected ToolError through wrapping")
	}
	if te.ExitCode != 2 {
		t.Errorf("expected exit code 2, got %d", te.ExitCode)
	}
}
