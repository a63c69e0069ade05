package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

// captureLog redirects the standard logger into a buffer for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelWarn)

	logger.Info("quiet info")
	logger.Debug("quiet debug")
	if buf.Len() != 0 {
		t.Errorf("Expected nothing below WARN, got %q", buf.String())
	}

	logger.Warn("loud warning %d", 7)
	logger.Error("loud error")

	out := buf.String()
	if !strings.Contains(out, "[WARN] loud warning 7") {
		t.Errorf("Missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] loud error") {
		t.Errorf("Missing error line in %q", out)
	}
}

func TestLoggerDebugLevelEmitsEverything(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelDebug)

	logger.Error("e")
	logger.Warn("w")
	logger.Info("i")
	logger.Debug("d")

	out := buf.String()
	for _, prefix := range []string{"[ERROR]", "[WARN]", "[INFO]", "[DEBUG]"} {
		if !strings.Contains(out, prefix) {
			t.Errorf("Missing %s line in %q", prefix, out)
		}
	}
}

func TestNewDefaultLoggerReadsEnvironment(t *testing.T) {
	cases := []struct {
		env  string
		want LogLevel
	}{
		{"ERROR", LogLevelError},
		{"WARN", LogLevelWarn},
		{"INFO", LogLevelInfo},
		{"DEBUG", LogLevelDebug},
		{"", LogLevelInfo},
		{"VERBOSE", LogLevelInfo},
	}
	for _, tc := range cases {
		t.Setenv("TOOTHLAB_LOG_LEVEL", tc.env)
		if got := NewDefaultLogger().GetLevel(); got != tc.want {
			t.Errorf("TOOTHLAB_LOG_LEVEL=%q: level = %v, want %v", tc.env, got, tc.want)
		}
	}
}
