package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BolkaZ/Tracker/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	mu         sync.Mutex
	configured bool
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
}

// Init configures the global logger once per process. Later calls are no-ops
// and return nil so every entry point can call it unconditionally.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if configured {
		return nil
	}

	// Log files live next to the database
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	// Create rotating file handler
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Set log level based on debug flag
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	// Normal mode writes to the file only and stays silent on stderr
	var writer io.Writer = fileWriter
	if cfg.Debug {
		// In debug mode, mirror every line to stderr
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	configured = true

	return nil
}

// IsConfigured reports whether Init has completed successfully.
func IsConfigured() bool {
	mu.Lock()
	defer mu.Unlock()
	return configured
}

// reset drops the configured logger. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	Logger = nil
	configured = false
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
