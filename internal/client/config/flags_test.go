package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-u", "http://127.0.0.1:9090/api", "-m", "production", "-d", "s.db", "-l", "debug"},
			expected: &Config{APIBaseURL: "http://127.0.0.1:9090/api", Mode: "production", DBPath: "s.db", LogLevel: "debug"},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "-m=production"},
			expected: &Config{Mode: "production"},
		},
		{
			name:    "missing value",
			args:    []string{"-m"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
