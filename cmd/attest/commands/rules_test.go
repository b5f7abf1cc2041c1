package commands

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/rule"
)

func TestRules_ListsKinds(t *testing.T) {
	testEnv(t, nil)

	out, err := execute(t, "rules")
	require.NoError(t, err)

	assert.Contains(t, out, "KIND")
	for _, k := range rule.Kinds() {
		assert.Contains(t, out, string(k))
	}
	assert.Contains(t, out, "Orderings: datasize, natural")
}

func TestRules_Check(t *testing.T) {
	testEnv(t, map[string]string{"/rules.yaml": depositRules})

	out, err := execute(t, "rules", "--check", "--rules", "/rules.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Rule file OK: 1 record type")
	assert.Contains(t, out, "deposit")
	assert.Contains(t, out, "*.deposit.yaml")
	assert.Contains(t, out, "doi, urn, homepage, token, max_size, min_size")
}

func TestRules_CheckInvalid(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.toml": "version = 1\n[types.t]\nattributes = [\"a\"]\n[[types.t.rules]]\nkind = \"greater_than\"\ngreater = \"a\"\nsmaller = \"a\"\n",
	})

	_, err := execute(t, "rules", "--check", "--rules", "/rules.toml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, ExitCode(err))
}

type stubEditor struct {
	fs      afero.Fs
	path    string
	content string
}

func (e *stubEditor) Edit(_ context.Context, path string) error {
	e.path = path
	return afero.WriteFile(e.fs, path, []byte(e.content), 0o644)
}

func TestRulesEdit(t *testing.T) {
	fs := testEnv(t, map[string]string{"/rules.yaml": "version: 1\n"})

	stub := &stubEditor{fs: fs, content: depositRules}
	orig := newEditor
	newEditor = func() fileEditor { return stub }
	t.Cleanup(func() { newEditor = orig })

	out, err := execute(t, "rules", "edit", "--rules", "/rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/rules.yaml", stub.path)
	assert.Contains(t, out, "Location: /rules.yaml")
	assert.Contains(t, out, "Rule file OK: 1 record type")
}

func TestRulesEdit_LeavesBrokenFile(t *testing.T) {
	fs := testEnv(t, nil)

	stub := &stubEditor{fs: fs, content: "types:\n  t:\n    attributes: []\n"}
	orig := newEditor
	newEditor = func() fileEditor { return stub }
	t.Cleanup(func() { newEditor = orig })

	_, err := execute(t, "rules", "edit", "--rules", "/rules.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, ExitCode(err))
}
