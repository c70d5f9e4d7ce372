package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitParsesLevelNames(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"":        LevelInfo,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for input, want := range cases {
		Init(input)
		assert.Equal(t, want, GetLevel(), "level for %q", input)
	}
}

func TestGetReturnsInitializedLogger(t *testing.T) {
	Init("info")
	l := Get()
	assert.NotNil(t, l)
	assert.Same(t, defaultLogger, l)
}

func TestWithContextAttachesKeyValue(t *testing.T) {
	Init("info")
	l := WithContext("task_id", "abc-123")
	assert.NotNil(t, l)
}

func TestGetStatusColorBuckets(t *testing.T) {
	assert.Equal(t, "\033[32m", getStatusColor(200))
	assert.Equal(t, "\033[33m", getStatusColor(301))
	assert.Equal(t, "\033[31m", getStatusColor(404))
	assert.Equal(t, "\033[35m", getStatusColor(500))
	assert.Equal(t, "\033[37m", getStatusColor(100))
}
