package commands

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/ruleset"
)

func TestCheck_Valid(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.yaml":     depositRules,
		"/a.deposit.yaml": validDeposit,
	})

	out, err := execute(t, "check", "--rules", "/rules.yaml", "/a.deposit.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
	assert.Equal(t, errors.ExitSuccess, ExitCode(err))
}

func TestCheck_Violations(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.yaml":     depositRules,
		"/b.deposit.yaml": invalidDeposit,
	})

	out, err := execute(t, "check", "--rules", "/rules.yaml", "/b.deposit.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
	assert.Contains(t, err.Error(), "2 errors in 1 document")

	assert.Contains(t, out, "/b.deposit.yaml")
	assert.Contains(t, out, "At least one of the fields [doi, urn] must be non-null")
	assert.Contains(t, out, "Invalid URI scheme: ftp")
}

func TestCheck_JSONReport(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.yaml":     depositRules,
		"/a.deposit.yaml": validDeposit,
		"/b.deposit.yaml": invalidDeposit,
	})

	out, err := execute(t, "check", "--rules", "/rules.yaml", "--format", "json",
		"/a.deposit.yaml", "/b.deposit.yaml")
	require.Error(t, err)

	var report struct {
		Valid  bool `json:"valid"`
		Errors int  `json:"errors"`
		Issues []struct {
			Source string `json:"source"`
			Rule   string `json:"rule"`
			Field  string `json:"field"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, 2, report.Errors)
	for _, issue := range report.Issues {
		assert.Equal(t, "/b.deposit.yaml", issue.Source)
	}
}

func TestCheck_OutputFile(t *testing.T) {
	fs := testEnv(t, map[string]string{
		"/rules.yaml":     depositRules,
		"/a.deposit.yaml": validDeposit,
	})

	out, err := execute(t, "check", "--rules", "/rules.yaml", "-f", "json", "-o", "/report.json", "/a.deposit.yaml")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := afero.ReadFile(fs, "/report.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"valid": true`)
}

func TestCheck_ExplicitType(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.yaml":   depositRules,
		"/manifest.yml": validDeposit,
	})

	_, err := execute(t, "check", "--rules", "/rules.yaml", "--type", "deposit", "/manifest.yml")
	require.NoError(t, err)
}

func TestCheck_SingleTypeWithoutMatch(t *testing.T) {
	testEnv(t, map[string]string{
		"/rules.yaml":    depositRules,
		"/manifest.json": `{"urn": "urn:nbn:de:1234", "max_size": 2048, "min_size": 1024}`,
	})

	_, err := execute(t, "check", "--rules", "/rules.yaml", "/manifest.json")
	require.NoError(t, err)
}

type stubSelector struct {
	got  []string
	pick int
}

func (s *stubSelector) SelectType(_ string, types []*ruleset.Type) (*ruleset.Type, error) {
	for _, t := range types {
		s.got = append(s.got, t.Name)
	}
	return types[s.pick], nil
}

func TestCheck_PromptsWhenAmbiguous(t *testing.T) {
	rules := depositRules + `  note:
    attributes: [title]
    rules:
      - kind: at_least_one_of
        fields: [title]
`
	testEnv(t, map[string]string{
		"/rules.yaml": rules,
		"/doc.yaml":   "title: hello\n",
	})

	stub := &stubSelector{pick: 1}
	orig := newSelector
	newSelector = func() typeSelector { return stub }
	t.Cleanup(func() { newSelector = orig })

	_, err := execute(t, "check", "--rules", "/rules.yaml", "/doc.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"deposit", "note"}, stub.got)
}

func TestCheck_Errors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		args     []string
		wantCode int
		wantErr  error
	}{
		{
			name:     "unknown type",
			files:    map[string]string{"/rules.yaml": depositRules, "/a.yaml": validDeposit},
			args:     []string{"--type", "nope", "/a.yaml"},
			wantCode: errors.ExitUser,
			wantErr:  errors.ErrUnknownType,
		},
		{
			name:     "missing document",
			files:    map[string]string{"/rules.yaml": depositRules},
			args:     []string{"/missing.deposit.yaml"},
			wantCode: errors.ExitUser,
		},
		{
			name:     "unsupported document format",
			files:    map[string]string{"/rules.yaml": depositRules, "/a.txt": "doi: x"},
			args:     []string{"/a.txt"},
			wantCode: errors.ExitUser,
		},
		{
			name:     "bad format flag",
			files:    map[string]string{"/rules.yaml": depositRules, "/a.yaml": validDeposit},
			args:     []string{"--format", "xml", "/a.yaml"},
			wantCode: errors.ExitUser,
		},
		{
			name: "undeclared attribute",
			files: map[string]string{
				"/rules.yaml": "types:\n  t:\n    attributes: [a]\n    rules:\n      - kind: at_least_one_of\n        fields: [a, b]\n",
				"/a.yaml":     "a: 1\n",
			},
			args:     []string{"/a.yaml"},
			wantCode: errors.ExitSystem,
			wantErr:  errors.ErrInvalidConfig,
		},
		{
			name: "unknown rule kind",
			files: map[string]string{
				"/rules.yaml": "types:\n  t:\n    attributes: [a]\n    rules:\n      - kind: bogus\n",
				"/a.yaml":     "a: 1\n",
			},
			args:     []string{"/a.yaml"},
			wantCode: errors.ExitSystem,
			wantErr:  errors.ErrUnknownRule,
		},
		{
			name: "incomparable values",
			files: map[string]string{
				"/rules.yaml": "types:\n  t:\n    attributes: [hi, lo]\n    rules:\n      - kind: greater_than\n        greater: hi\n        smaller: lo\n",
				"/a.yaml":     "hi: [1]\nlo: [2]\n",
			},
			args:     []string{"/a.yaml"},
			wantCode: errors.ExitSystem,
			wantErr:  errors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t, tt.files)

			args := append([]string{"check", "--rules", "/rules.yaml"}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err), "error: %v", err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "error %v should match %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck_MissingRuleFile(t *testing.T) {
	testEnv(t, map[string]string{"/a.yaml": validDeposit})

	_, err := execute(t, "check", "--rules", "/nope.yaml", "/a.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, ExitCode(err))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Suggestion, "--rules")
}

func TestCheck_RequiresDocuments(t *testing.T) {
	testEnv(t, nil)

	_, err := execute(t, "check")
	require.Error(t, err)
}
