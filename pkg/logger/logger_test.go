package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogger_LevelThreshold(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut)
	l.SetLevel(LevelWarn)

	l.Debug("debug %d", 1)
	l.Info("info %d", 2)
	l.Warn("warn %d", 3)
	l.Error("error %d", 4)

	assert.Empty(t, out.String(), "no stdout output below threshold")
	logged := errOut.String()
	assert.Contains(t, logged, "WARN: ")
	assert.Contains(t, logged, "warn 3")
	assert.Contains(t, logged, "ERROR: ")
	assert.Contains(t, logged, "error 4")
}

func TestLogger_DebugEnabled(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters(&out, &errOut)
	l.SetLevel(LevelDebug)

	l.Debug("user %s joined", "alice")

	assert.Contains(t, out.String(), "DEBUG: ")
	assert.Contains(t, out.String(), "user alice joined")
}
