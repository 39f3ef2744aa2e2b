package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapAdapter_FieldsAndScopes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"taskType": "generate"})

	log.Debug("raw model output", map[string]interface{}{"raw": "{}"})
	log.WithError(errors.New("boom")).Error("model call failed", nil)
	log.Warn("fallback", map[string]interface{}{"cause": errors.New("bad json")})

	entries := logs.All()
	assert.Len(t, entries, 3)

	assert.Equal(t, "raw model output", entries[0].Message)
	assert.Equal(t, "generate", entries[0].ContextMap()["taskType"])
	assert.Equal(t, "{}", entries[0].ContextMap()["raw"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, "bad json", entries[2].ContextMap()["cause"])
}

func TestNewNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()

	assert.NotPanics(t, func() {
		log.Info("ignored", map[string]interface{}{"k": 1})
		_ = log.Sync()
	})
}
