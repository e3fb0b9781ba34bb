package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesJSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(Opts{Env: "production", Level: "info", Output: &buf})

	log.WithComponent("fanout").Info("fan-out finished", "post_id", 42)
	log.Debug("hidden debug line")

	out := buf.String()
	if !strings.Contains(out, "fan-out finished") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "fanout") || !strings.Contains(out, "post_id") {
		t.Errorf("expected attributes in output, got %q", out)
	}
	if strings.Contains(out, "hidden debug line") {
		t.Errorf("debug line should be filtered at info level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("nothing to see", "err", "x")
	if log.Slog() == nil {
		t.Fatal("expected a slog logger")
	}
}
