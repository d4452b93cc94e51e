package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func initTestLogger(t *testing.T, verbose bool) (*bytes.Buffer, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "logs", "capacity-recon.log")
	consoleBuffer := &bytes.Buffer{}

	if err := Init(consoleBuffer, logPath, verbose); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(Close)
	return consoleBuffer, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestLoggerInit(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	Info("Parsed %d workbooks", 3)
	if !strings.Contains(consoleBuffer.String(), "Parsed 3 workbooks") {
		t.Errorf("Console output missing info message: %s", consoleBuffer.String())
	}

	logStr := readLog(t, logPath)
	if !strings.Contains(logStr, "[INFO]") || !strings.Contains(logStr, "Parsed 3 workbooks") {
		t.Errorf("Log file missing info entry: %s", logStr)
	}
}

func TestLoggerLevels(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	Debug("Debug message")
	Info("Info message")
	Warn("Warn message")
	Error("Error message")

	logStr := readLog(t, logPath)
	for _, level := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(logStr, level) {
			t.Errorf("Log file missing %s level", level)
		}
	}

	if strings.Contains(consoleBuffer.String(), "Debug message") {
		t.Error("Console should not show DEBUG when verbose=false")
	}
}

func TestLoggerVerbose(t *testing.T) {
	consoleBuffer, _ := initTestLogger(t, true)

	Debug("header at row %d", 4)

	consoleStr := consoleBuffer.String()
	if !strings.Contains(consoleStr, "[DEBUG]") || !strings.Contains(consoleStr, "header at row 4") {
		t.Errorf("Console should show DEBUG when verbose=true: %s", consoleStr)
	}
}

func TestLoggerWithoutFile(t *testing.T) {
	consoleBuffer := &bytes.Buffer{}
	if err := Init(consoleBuffer, "", false); err != nil {
		t.Fatalf("Failed to initialize console-only logger: %v", err)
	}
	defer Close()

	Warn("column mapped twice")
	if !strings.Contains(consoleBuffer.String(), "column mapped twice") {
		t.Error("Console missing warning")
	}
	if GetLogFilePath() != "" {
		t.Errorf("Expected no log file path, got %s", GetLogFilePath())
	}
}

func TestLogSourceError(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	LogSourceError("/data/fy26/summary.xlsx", errors.New("zip: not a valid zip file"), "read")

	logStr := readLog(t, logPath)
	if !strings.Contains(logStr, "[SOURCE_ERROR]") {
		t.Error("Log file missing SOURCE_ERROR marker")
	}
	if !strings.Contains(logStr, "/data/fy26/summary.xlsx") {
		t.Error("Log file missing file path")
	}
	if !strings.Contains(logStr, "Stage: read") {
		t.Error("Log file missing stage")
	}

	if strings.Contains(consoleBuffer.String(), "[SOURCE_ERROR]") {
		t.Error("Console should not show detailed source errors")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if result := tt.level.String(); result != tt.expected {
			t.Errorf("Level.String() = %s, expected %s", result, tt.expected)
		}
	}
}

func TestGetLogFilePathAndVerbose(t *testing.T) {
	_, logPath := initTestLogger(t, false)

	if got := GetLogFilePath(); got != logPath {
		t.Errorf("GetLogFilePath() = %s, expected %s", got, logPath)
	}
	if IsVerbose() {
		t.Error("IsVerbose() should return false when initialized with verbose=false")
	}
}

func TestForSheetPrefix(t *testing.T) {
	consoleBuffer, logPath := initTestLogger(t, false)

	ForSheet("summary.xlsx", "Summary Linked").Warn("column %q mapped twice", "Capacity")
	ForSheet("notes.csv", "").Debug("no header")

	if !strings.Contains(consoleBuffer.String(), `summary.xlsx [Summary Linked]: column "Capacity" mapped twice`) {
		t.Errorf("Console missing scoped warning: %s", consoleBuffer.String())
	}
	if !strings.Contains(readLog(t, logPath), "[DEBUG] notes.csv: no header") {
		t.Error("Log file missing scoped debug entry")
	}
}
