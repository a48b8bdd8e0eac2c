package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-H", "db.internal", "-P", "6543", "-n", "got", "-u", "user", "-p", "password",
				"-s", "require", "-t", "3", "-l", "debug",
			},
			expected: &Config{
				DBHost:         "db.internal",
				DBPort:         6543,
				DBName:         "got",
				DBUser:         "user",
				DBPassword:     "password",
				DBSSLMode:      "require",
				ConnectTimeout: 3 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "foreign flags are ignored",
			args: []string{"cmd", "-c", "cfg.json", "-P", "5433", "-x", "1"},
			expected: &Config{
				DBPort:         5433,
			},
		},
		{
			name:        "bad port panics",
			args:        []string{"cmd", "-P", "five"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
