package infrastructure

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"elastiplot/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "both",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Errorf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	cfg := config.LoggingConfig{Level: "info", Format: "text", Output: "console"}

	first, err := InitializeLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"})
	if err != nil {
		t.Fatalf("Second initialize returned error: %v", err)
	}
	if first != second {
		t.Error("InitializeLogger should return the same instance on repeat calls")
	}
	if GetLogger() != first {
		t.Error("GetLogger should return the initialized instance")
	}
}

func TestGetLogger_Uninitialized(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil before initialization")
	}
	if GetLogger() != slog.Default() {
		t.Error("GetLogger should fall back to slog.Default before initialization")
	}
}

func TestCreateLogger_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		wantJSON bool
	}{
		{name: "json handler", format: "json", wantJSON: true},
		{name: "text handler", format: "text", wantJSON: false},
		{name: "unknown falls back to text", format: "logfmt", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := createLogger(config.LoggingConfig{
				Level:  "info",
				Format: tt.format,
				Output: "console",
			})
			if err != nil {
				t.Fatalf("createLogger failed: %v", err)
			}

			_, isJSON := logger.Handler().(*slog.JSONHandler)
			if isJSON != tt.wantJSON {
				t.Errorf("format %q: got JSON handler %v, want %v", tt.format, isJSON, tt.wantJSON)
			}
		})
	}
}

func TestCreateLogger_FileOutput(t *testing.T) {
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "out.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "text",
		Output:   "file",
		FilePath: logFile,
	})
	if err != nil {
		t.Fatalf("createLogger failed: %v", err)
	}

	logger.Debug("file sink message")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "file sink message") {
		t.Errorf("Log file missing message, got: %s", content)
	}
}

func TestCreateLogger_LevelFiltering(t *testing.T) {
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "out.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "warn",
		Format:   "text",
		Output:   "file",
		FilePath: logFile,
	})
	if err != nil {
		t.Fatalf("createLogger failed: %v", err)
	}

	logger.Info("suppressed message")
	logger.Warn("visible message")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed message") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(string(content), "visible message") {
		t.Error("Warn message should be logged at warn level")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
