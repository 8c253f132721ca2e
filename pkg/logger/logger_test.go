package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for level, want := range tests {
		log, err := New(level)
		require.NoError(t, err, level)
		assert.True(t, log.Core().Enabled(want), level)
		if want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(want-1), level)
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty")
	assert.Error(t, err)
}
