package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/paths"
)

const depositRules = `version: 1
types:
  deposit:
    description: SWORD deposit manifest
    match: ["*.deposit.yaml"]
    attributes: [doi, urn, homepage, token, max_size, min_size]
    rules:
      - kind: at_least_one_of
        fields: [doi, urn]
      - kind: greater_than
        greater: max_size
        smaller: min_size
        ordering: datasize
    fields:
      homepage:
        - kind: allowed_schemes
          schemes: [http, https]
      token:
        - kind: prefixed_token
`

const validDeposit = `doi: 10.1234/abc
homepage: https://example.org
token: sword:123e4567-e89b-12d3-a456-426614174000
max_size: 2 GiB
min_size: 10 MiB
`

const invalidDeposit = `homepage: ftp://example.org
token: sword:123e4567-e89b-12d3-a456-426614174000
max_size: 2 GiB
min_size: 10 MiB
`

// testEnv isolates a command run: config discovery, flag values and the
// filesystem are reset, and files are written to an in-memory filesystem.
func testEnv(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	t.Setenv("ATTEST_DEBUG", "")
	t.Chdir(t.TempDir())

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	origFs := appFs
	appFs = fs
	t.Cleanup(func() { appFs = origFs })

	resetFlags(t)
	return fs
}

func resetFlags(t *testing.T) {
	t.Helper()
	verbosity, quiet, logFormat, logFile, configPath = 0, false, "text", "", ""
	checkRules, checkType, checkFormat, checkOutput = "", "", "", ""
	rulesCheck, rulesFile = false, ""
	t.Cleanup(func() {
		verbosity, quiet, logFormat, logFile, configPath = 0, false, "text", "", ""
		checkRules, checkType, checkFormat, checkOutput = "", "", "", ""
		rulesCheck, rulesFile = false, ""
	})
}

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
