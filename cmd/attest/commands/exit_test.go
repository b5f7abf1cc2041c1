package commands

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/attest/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitSuccess},
		{"plain", errors.New("boom"), errors.ExitUser},
		{"invalid config", errors.Wrap(errors.ErrInvalidConfig, "rules"), errors.ExitSystem},
		{"exit error", errors.NewSystemError(errors.New("x"), ""), errors.ExitSystem},
		{"wrapped exit error", errors.Wrap(errors.NewUserError(errors.New("x"), ""), "executing"), errors.ExitUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestPrintError(t *testing.T) {
	t.Run("message and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := errors.Wrap(errors.NewUserError(errors.New("bad input"), "try again"), "executing root command")
		PrintError(&buf, err)
		assert.Equal(t, "Error: bad input\nSuggestion: try again\n", buf.String())
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, errors.New("boom"))
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("validation failures are already reported", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, errors.NewExitError(errors.Wrap(errors.ErrValidationFailed, "1 error"), errors.ExitUser))
		assert.Empty(t, buf.String())
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		PrintError(&buf, nil)
		assert.Empty(t, buf.String())
	})
}
