package observ

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		env, level string
		enabled    zapcore.Level
		disabled   zapcore.Level
	}{
		{"production", "warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"development", "debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"development", "nonsense", zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			log, err := NewLogger(tt.env, tt.level)
			if err != nil {
				t.Fatalf("NewLogger() error: %v", err)
			}
			core := log.Core()
			if !core.Enabled(tt.enabled) {
				t.Errorf("level %v disabled", tt.enabled)
			}
			if core.Enabled(tt.disabled) {
				t.Errorf("level %v enabled", tt.disabled)
			}
		})
	}
}
