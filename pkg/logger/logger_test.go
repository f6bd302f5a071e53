package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"info":    InfoLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("hidden line")
	log.Warn("visible line")

	out := buf.String()
	if strings.Contains(out, "hidden line") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "visible line") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf).With("team", "KC")

	log.Debug("loaded")

	if !strings.Contains(buf.String(), "team=KC") {
		t.Errorf("expected team field in %q", buf.String())
	}
}
