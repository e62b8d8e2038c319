package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		config, err := Load(filepath.Join(t.TempDir(), FileName))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want %q", config.LogLevel, "info")
		}
		if config.Pretty != PrettyAuto {
			t.Errorf("Pretty = %q, want %q", config.Pretty, PrettyAuto)
		}
		if config.Backend != "" {
			t.Errorf("Backend = %q, want empty", config.Backend)
		}
	})

	t.Run("valid yaml file", func(t *testing.T) {
		path := writeConfig(t, `
backend: claude
log_level: debug
pretty: never
schema_out: schema/universal.json
placeholder:
  thread_id: thread-0
  turn_id: turn-0
`)
		config, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Backend != "claude" {
			t.Errorf("Backend = %q, want %q", config.Backend, "claude")
		}
		if config.SchemaOut != "schema/universal.json" {
			t.Errorf("SchemaOut = %q", config.SchemaOut)
		}
		if config.Placeholder.ThreadID != "thread-0" || config.Placeholder.TurnID != "turn-0" {
			t.Errorf("Placeholder = %+v", config.Placeholder)
		}
		level, err := config.Level()
		if err != nil {
			t.Fatalf("Level: %v", err)
		}
		if level != slog.LevelDebug {
			t.Errorf("Level = %v, want debug", level)
		}
	})

	t.Run("empty values use defaults", func(t *testing.T) {
		config, err := Load(writeConfig(t, "backend: amp\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.LogLevel != "info" || config.Pretty != PrettyAuto {
			t.Errorf("defaults not applied: %+v", config)
		}
	})

	t.Run("invalid pretty", func(t *testing.T) {
		_, err := Load(writeConfig(t, "pretty: sometimes\n"))
		if err == nil || !strings.Contains(err.Error(), "sometimes") {
			t.Fatalf("expected pretty error, got %v", err)
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log_level: loud\n"))
		if err == nil || !strings.Contains(err.Error(), "log_level") {
			t.Fatalf("expected log_level error, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "backend: [unterminated\n"))
		if err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestPrettyOutput(t *testing.T) {
	tests := []struct {
		pretty   string
		terminal bool
		want     bool
	}{
		{PrettyAuto, true, true},
		{PrettyAuto, false, false},
		{PrettyAlways, false, true},
		{PrettyNever, true, false},
	}
	for _, tc := range tests {
		config := &Config{Pretty: tc.pretty}
		if got := config.PrettyOutput(tc.terminal); got != tc.want {
			t.Errorf("PrettyOutput(%s, terminal=%v) = %v, want %v", tc.pretty, tc.terminal, got, tc.want)
		}
	}
}
