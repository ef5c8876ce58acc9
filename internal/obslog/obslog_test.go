package obslog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("ConsoleLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: "warn", Console: &buf})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		logger.Info("hidden")
		logger.Warn("shown", zap.Int("x", 3))
		_ = logger.Sync()

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info line written at warn level: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "WARN") {
			t.Errorf("missing warn line: %q", out)
		}
	})

	t.Run("JSONFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "simplechess.log")
		var buf bytes.Buffer
		logger, err := New(Options{Level: "debug", Format: "json", File: path, Console: &buf})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		logger.Debug("move_committed", zap.String("piece", "White Knight"))
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !strings.Contains(string(data), `"msg":"move_committed"`) {
			t.Errorf("file content = %q", data)
		}
		if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
			t.Errorf("console output is not json: %q", buf.String())
		}
	})
}

func TestInit(t *testing.T) {
	prev := L()
	defer func() { globalLogger = prev }()

	var buf bytes.Buffer
	if err := Init(Options{Console: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Info("hello")
	Sync()
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("global logger did not write: %q", buf.String())
	}
}
