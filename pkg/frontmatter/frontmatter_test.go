package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/attest/internal/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantHeader string
		wantBody   string
		wantFound  bool
		wantErr    error
	}{
		{
			name:       "lf",
			content:    "---\ntitle: x\n---\nbody\n",
			wantHeader: "title: x\n",
			wantBody:   "body\n",
			wantFound:  true,
		},
		{
			name:       "crlf",
			content:    "---\r\ntitle: x\r\n---\r\nbody",
			wantHeader: "title: x\r\n",
			wantBody:   "body",
			wantFound:  true,
		},
		{
			name:      "empty header",
			content:   "---\n---\n",
			wantFound: true,
		},
		{
			name:       "closing delimiter at end of file",
			content:    "---\na: 1\n---",
			wantHeader: "a: 1\n",
			wantFound:  true,
		},
		{
			name:     "no front matter",
			content:  "# Title\n",
			wantBody: "# Title\n",
		},
		{
			name:      "unterminated",
			content:   "---\na: 1\n",
			wantFound: true,
			wantErr:   ErrUnterminated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, found, err := Split([]byte(tt.content))
			assert.Equal(t, tt.wantFound, found)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, string(header))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestParse(t *testing.T) {
	var matter map[string]any
	body, err := Parse(strings.NewReader("---\ntoken: sword:x\nsizes: [1, 2]\n---\n# Deposit\n"), &matter)
	require.NoError(t, err)
	assert.Equal(t, "# Deposit\n", string(body))
	assert.Equal(t, "sword:x", matter["token"])
	assert.Equal(t, []any{1, 2}, matter["sizes"])
}

func TestParse_Optional(t *testing.T) {
	var matter map[string]any
	body, err := Parse(strings.NewReader("plain"), &matter)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(body))
	assert.Nil(t, matter)
}

func TestMustParse_Missing(t *testing.T) {
	var matter map[string]any
	_, err := MustParse(strings.NewReader("plain"), &matter)
	assert.True(t, errors.Is(err, ErrMissingFrontmatter))
}

func TestParse_InvalidYAML(t *testing.T) {
	var matter map[string]any
	_, err := MustParse(strings.NewReader("---\n: [\n---\n"), &matter)
	assert.Error(t, err)
}
