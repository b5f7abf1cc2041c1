package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading rules: %w", ErrInvalidConfig), ExitUser),
			want: "loading rules: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
		{
			name: "success code with error",
			err:  NewExitError(errors.New("unexpected"), ExitSuccess),
			want: "unexpected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through wrapped error",
			err:        NewExitError(Wrap(ErrUnknownRule, "loading rule file"), ExitSystem),
			wantTarget: ErrUnknownRule,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestExitError_As(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantAs   bool
	}{
		{
			name:     "direct ExitError",
			err:      NewExitError(ErrNotFound, ExitUser),
			wantCode: ExitUser,
			wantAs:   true,
		},
		{
			name:     "wrapped ExitError",
			err:      fmt.Errorf("command failed: %w", NewExitError(ErrInvalidConfig, ExitSystem)),
			wantCode: ExitSystem,
			wantAs:   true,
		},
		{
			name:     "non-ExitError",
			err:      ErrNotFound,
			wantCode: 0,
			wantAs:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitErr *ExitError
			gotAs := As(tt.err, &exitErr)
			if gotAs != tt.wantAs {
				t.Errorf("As() = %v, want %v", gotAs, tt.wantAs)
			}
			if gotAs && exitErr.Code != tt.wantCode {
				t.Errorf("ExitError.Code = %d, want %d", exitErr.Code, tt.wantCode)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"ErrNotFound", ErrNotFound, "resource not found"},
		{"ErrInvalidConfig", ErrInvalidConfig, "invalid configuration"},
		{"ErrUnknownRule", ErrUnknownRule, "unknown rule kind"},
		{"ErrUnknownType", ErrUnknownType, "unknown record type"},
		{"ErrValidationFailed", ErrValidationFailed, "validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, got, tt.wantMsg)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	if ExitSuccess != 0 || ExitUser != 1 || ExitSystem != 2 {
		t.Errorf("exit codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitUser, ExitSystem)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	err := Wrapf(ErrInvalidConfig, "rule %q", "greater_than")
	if got, want := err.Error(), `rule "greater_than": invalid configuration`; got != want {
		t.Errorf("Wrapf().Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidConfig) {
		t.Error("Is() should find ErrInvalidConfig through Wrapf")
	}
}

func TestMark(t *testing.T) {
	err := Mark(New("field fieldXXX does not exist"), ErrInvalidConfig)
	if !Is(err, ErrInvalidConfig) {
		t.Error("marked error should match ErrInvalidConfig")
	}
	if got := err.Error(); got != "field fieldXXX does not exist" {
		t.Errorf("Mark changed the message: %q", got)
	}
}

func TestNewConstructors(t *testing.T) {
	t.Run("NewUserError", func(t *testing.T) {
		err := errors.New("user error")
		e := NewUserError(err, "check input")
		if e.Err != err || e.Code != ExitUser || e.Suggestion != "check input" {
			t.Errorf("NewUserError() = %+v", e)
		}
	})

	t.Run("NewSystemError", func(t *testing.T) {
		e := NewSystemError(errors.New("system error"), "check logs")
		if e.Code != ExitSystem {
			t.Errorf("Code = %d, want %d", e.Code, ExitSystem)
		}
	})

	t.Run("NewConfigError default suggestion", func(t *testing.T) {
		e := NewConfigError(errors.New("config error"))
		if e.Code != ExitSystem {
			t.Errorf("Code = %d, want %d", e.Code, ExitSystem)
		}
		if e.Suggestion != "Run: attest rules --check" {
			t.Errorf("Suggestion = %q, want default", e.Suggestion)
		}
	})

	t.Run("NewConfigError uses hint", func(t *testing.T) {
		e := NewConfigError(WithHint(ErrInvalidConfig, "declare the attribute"))
		if e.Suggestion != "declare the attribute" {
			t.Errorf("Suggestion = %q, want hint", e.Suggestion)
		}
	})
}
