package loghandler

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var tsPrefix = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} `)

func TestCompactHandler_TagAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	logger.Info("room created", "tag", "room", "room", "123456", "players", 0)

	line := buf.String()
	if !tsPrefix.MatchString(line) {
		t.Fatalf("missing timestamp prefix: %q", line)
	}
	rest := tsPrefix.ReplaceAllString(line, "")
	if rest != "[room] room created room=123456 players=0\n" {
		t.Errorf("unexpected line %q", rest)
	}
}

func TestCompactHandler_WithAttrsBindsTag(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).With("tag", "ws", "client", "c1")

	logger.Warn("slow consumer", "dropped", 3)

	rest := tsPrefix.ReplaceAllString(buf.String(), "")
	if rest != "[ws] WARN slow consumer client=c1 dropped=3\n" {
		t.Errorf("unexpected line %q", rest)
	}
}

func TestCompactHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Debug("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
	logger.Error("shown", "err", "boom")
	if !strings.Contains(buf.String(), "ERROR shown err=boom") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCompactHandler_Group(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).WithGroup("round")

	logger.Info("settled", "bid", 120)

	if !strings.HasSuffix(buf.String(), "settled round.bid=120\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
