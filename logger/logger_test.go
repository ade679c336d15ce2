package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"okto-simulator/config"
)

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New(config.LogConfig{Level: "verbose", Encoding: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !log.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("expected info enabled")
	}
	if log.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("expected debug disabled")
	}
}

func TestNew_ConsoleDebug(t *testing.T) {
	log, err := New(config.LogConfig{Level: "DEBUG", Encoding: "console"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("expected debug enabled")
	}
}
