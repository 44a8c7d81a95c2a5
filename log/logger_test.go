package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewCustomLogger(&buf, LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	assert.Empty(t, buf.String())

	logger.Warn("warn %s", "message")
	assert.Contains(t, buf.String(), "[WARN] warn message")

	logger.Error("error message")
	assert.Contains(t, buf.String(), "[ERROR] error message")
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelNone, "NONE"},
		{Level(42), "UNKNOWN(42)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestPackageLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	SetDefaultLogger(NewCustomLogger(&buf, LevelDebug))

	Debug("one")
	Info("two")
	Warn("three")
	Error("four")

	out := buf.String()
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
	assert.Contains(t, out, "three")
	assert.Contains(t, out, "four")
}

func TestGologLogger(t *testing.T) {
	var buf bytes.Buffer
	gl := golog.New()
	gl.SetOutput(&buf)
	gl.SetLevel("debug")

	logger := NewGologLogger(gl)
	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())

	logger.Info("hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")

	buf.Reset()
	logger.SetLevel(LevelError)
	logger.Info("should be dropped")
	assert.Empty(t, buf.String())
}
