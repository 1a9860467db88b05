// internal/logging/logging_test.go
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "stcm2l.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("decompiled %s", "prologue.dat")
	LogFileEvent("scan", "prologue.dat", map[string]int{"scanned": 412, "accepted": 198})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "decompiled prologue.dat") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[SCAN] file=prologue.dat accepted=198 scanned=412") {
		t.Fatalf("expected LogFileEvent content, got: %s", content)
	}
}

func TestDebugGate(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "stcm2l.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	SetDebug(false)
	LogDebug("hidden %d", 1)
	SetDebug(true)
	LogDebug("visible %d", 2)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden 1") {
		t.Fatalf("debug line logged while gate closed: %s", content)
	}
	if !strings.Contains(content, "[DEBUG] visible 2") {
		t.Fatalf("expected gated debug line, got: %s", content)
	}
}

func TestBuildFileMessageDefaults(t *testing.T) {
	t.Parallel()

	msg := buildFileMessage(" write ", " ", map[string]int{"lines": 3})
	if !strings.Contains(msg, "[WRITE]") {
		t.Fatalf("expected uppercased stage, got: %s", msg)
	}
	if !strings.Contains(msg, "file=unknown") {
		t.Fatalf("expected default file, got: %s", msg)
	}
	if !strings.Contains(msg, "lines=3") {
		t.Fatalf("expected counter, got: %s", msg)
	}
}
