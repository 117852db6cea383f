package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capmoment/captionroom/internal/config"
)

func TestParsePort(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "unset falls back to default", input: "", want: 8501},
		{name: "explicit port", input: "3000", want: 3000},
		{name: "default port explicit", input: "8501", want: 8501},
		{name: "minimum port", input: "1", want: 1},
		{name: "maximum port", input: "65535", want: 65535},
		{name: "non-numeric", input: "abc", wantErr: true},
		{name: "trailing garbage", input: "8080x", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "above range", input: "65536", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ParsePort(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := config.Resolve("", false, "", "postgres://localhost/captionroom")
	require.NoError(t, err)

	assert.Equal(t, 8501, cfg.Port)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.CORSEnabled)
	assert.Equal(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, ":8501", cfg.Addr())
}

func TestResolve_ExplicitPort(t *testing.T) {
	cfg, err := config.Resolve("3000", false, "data", "")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.True(t, cfg.Headless, "headless is forced on regardless of input")
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestResolve_MalformedPortFailsFast(t *testing.T) {
	_, err := config.Resolve("abc", false, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestResolve_CORSOptIn(t *testing.T) {
	cfg, err := config.Resolve("", true, "", "")
	require.NoError(t, err)
	assert.True(t, cfg.CORSEnabled)
}
