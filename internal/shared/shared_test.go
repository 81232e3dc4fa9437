package shared

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.WarnLevel)

	logger.Info("hidden")
	WithLogger(logger, "playlist", "abc").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "playlist=abc")
	assert.Contains(t, out, "sp2yt")
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Daft Punk - One More Time (Official Video)", "one more time", true},
		{"DAFT PUNK", "daft punk", true},
		{"Random Upload", "Daft Punk", false},
		{"anything", "", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsFold(tt.s, tt.sub), "%q in %q", tt.sub, tt.s)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:00", FormatDuration(-5))
	assert.Equal(t, "3:05", FormatDuration(185_000))
	assert.Equal(t, "10:00", FormatDuration(600_999))
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	compact, err := MarshalJSON(v, false)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(compact))

	pretty, err := MarshalJSON(v, true)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(pretty))
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos    string
		wantBin string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"freebsd", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, "https://example.com")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBin, cmd.Args[0])
			assert.Equal(t, "https://example.com", cmd.Args[len(cmd.Args)-1])
		})
	}
}
