package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylus/internal/config"
	"stylus/internal/logging"
	"stylus/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleOutputShape(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "reconciler")
	scoped.Info("track matched",
		logging.Int64(logging.FieldTrackID, 12),
		logging.String(logging.FieldBatchID, "batch-1"),
		logging.Float64("score", 0.93))

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO reconciler: track matched") {
		t.Fatalf("unexpected console line: %q", content)
	}
	if !strings.Contains(content, "score=0.93") {
		t.Fatalf("expected score attr, got %q", content)
	}
	// Correlation keys come before other attrs.
	if strings.Index(content, "batch_id=") > strings.Index(content, "score=") {
		t.Fatalf("expected batch_id ordered before score: %q", content)
	}
}

func TestConsoleOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "info.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "debug",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")
	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.json")
	logger, err := logging.New(logging.Options{
		Format:           "json",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	content := readLog(t, logPath)
	for _, fragment := range []string{`"msg":"json message"`, `"level":"info"`, `"k":"v"`, `"ts":"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %s in JSON output, got %q", fragment, content)
		}
	}
}

func TestUnsupportedFormatRejected(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content := readLog(t, filepath.Join(cfg.Paths.LogDir, "stylus.log"))
	if !strings.Contains(content, "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	ctx = services.WithTrackID(ctx, 123)
	ctx = services.WithBatchID(ctx, "batch-xyz")
	ctx = services.WithPhase(ctx, "searching")

	logging.WithContext(ctx, logger).Info("contextual log")

	content := readLog(t, logPath)
	for _, fragment := range []string{"track_id=123", "batch_id=batch-xyz", "phase=searching"} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %s in output, got %q", fragment, content)
		}
	}
}

func TestNopLoggerStaysQuiet(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("this should vanish", logging.Error(os.ErrNotExist))
}
