package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ftskit/ftsengine/internal/config"
)

func TestSetupWritesJSONLogLine(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LoggingConfig{
		Level:         "info",
		FilePath:      filepath.Join(dir, "engine.log"),
		MaxSizeMB:     1,
		MaxFiles:      2,
		WriteToStderr: false,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer cleanup()

	logger.Info("indexed document", "docId", "doc-1")

	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"indexed document"`) || !strings.Contains(string(data), `"docId":"doc-1"`) {
		t.Fatalf("expected JSON log line, got %q", data)
	}
}

func TestSetupWithoutFilePathLogsToStderrOnly(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", WriteToStderr: true}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer cleanup()

	logger.Info("no file configured")
}

func TestParseLevel(t *testing.T) {
	cases := []string{"debug", "info", "warn", "error", "bogus"}
	for _, level := range cases {
		_ = parseLevel(level) // must not panic for any input
	}
}

func TestRotatingWriterRotatesPastMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")
	w, err := NewRotatingWriter(path, 0, 2) // maxSizeMB=0 forces rotation on first write past 0 bytes
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello world\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte("second line\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	rotated, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file %s.1: %v", path, err)
	}
	if string(rotated) != "hello world\n" {
		t.Fatalf("expected first line rotated into %s.1, got %q", path, rotated)
	}
}
