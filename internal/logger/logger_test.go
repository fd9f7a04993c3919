package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	reset()
	t.Cleanup(reset)

	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Error("Logger is nil after initialization")
	}
	if !IsConfigured() {
		t.Error("IsConfigured() = false after Init")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitIsIdempotent(t *testing.T) {
	reset()
	t.Cleanup(reset)

	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	if err := Init(Config{ConfigDir: first}); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	configuredLogger := Logger

	if err := Init(Config{Debug: true, ConfigDir: second}); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if Logger != configuredLogger {
		t.Error("second Init replaced the configured logger")
	}
	if _, err := os.Stat(filepath.Join(second, "logs")); !os.IsNotExist(err) {
		t.Error("second Init should not touch its config directory")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	reset()

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
