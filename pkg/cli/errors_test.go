package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	tests := []struct {
		name  string
		field string
		msg   string
		want  string
	}{
		{name: "with field", field: "server.listen_address", msg: "must not be empty", want: "config error in server.listen_address: must not be empty"},
		{name: "without field", msg: "failed to load", want: "config error: failed to load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigError(tt.field, tt.msg)
			if err.Error() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	base := errors.New("listen failed")
	err := NewCommandError("run", base)

	if err.Error() != "command run failed: listen failed" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("Expected CommandError to unwrap to its cause")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "config", err: NewConfigError("x", "bad"), want: ExitConfig},
		{name: "wrapped config", err: fmt.Errorf("startup: %w", NewConfigError("x", "bad")), want: ExitConfig},
		{name: "command", err: NewCommandError("run", errors.New("boom")), want: ExitFailure},
		{name: "plain", err: errors.New("boom"), want: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
