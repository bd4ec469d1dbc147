package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	InitLogger(level)
	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("test info message") },
			contains: []string{"test info message"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func() { Debug("test debug message") },
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func() { Debug("test debug message") },
			excludes: []string{"test debug message"},
		},
		{
			name:     "warn log",
			level:    "warn",
			logFn:    func() { Warnf("md5sum mismatch for %s", "pkg_1.0.deb") },
			contains: []string{"md5sum mismatch for pkg_1.0.deb", "level=WARN"},
		},
		{
			name:     "error log with fields",
			level:    "error",
			logFn:    func() { Error("tool failed", Fields{"exitCode": 1}) },
			contains: []string{"tool failed", "exitCode=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(output, want), "output %q should contain %q", output, want)
			}
			for _, not := range tt.excludes {
				assert.False(t, strings.Contains(output, not), "output %q should not contain %q", output, not)
			}
		})
	}
}
