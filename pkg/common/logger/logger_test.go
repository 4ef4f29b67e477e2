package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itsSauraj/kit-cat/pkg/common/logger"
)

func newBufLogger(level logger.Level, format logger.Format) (*bytes.Buffer, func(string, ...any)) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{Level: level, Format: format, Output: buf})
	return buf, log.Info
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.Config{
		Level:  logger.LevelWarn,
		Format: logger.FormatText,
		Output: buf,
	})

	log.Debug("quiet-debug")
	log.Info("quiet-info")
	if buf.Len() != 0 {
		t.Fatalf("nothing below Warn should be emitted, got %q", buf.String())
	}

	log.Warn("loud-warn")
	log.Error("loud-error")
	out := buf.String()
	for _, want := range []string{"loud-warn", "loud-error"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestTextAttributes(t *testing.T) {
	buf, info := newBufLogger(logger.LevelInfo, logger.FormatText)

	info("object written", "hash", "abc123", "size", 42)

	out := buf.String()
	for _, want := range []string{"object written", "hash=abc123", "size=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestJSONEncoding(t *testing.T) {
	buf, info := newBufLogger(logger.LevelInfo, logger.FormatJSON)

	info("index flushed", "entries", "3")

	out := buf.String()
	for _, want := range []string{`"msg":"index flushed"`, `"entries":"3"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in JSON output, got %q", want, out)
		}
	}
}

func TestChildLoggerAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	base := logger.New(logger.Config{
		Level:  logger.LevelInfo,
		Format: logger.FormatText,
		Output: buf,
	})

	child := base.With("subsystem", "store")
	child.Info("ping")

	if !strings.Contains(buf.String(), "subsystem=store") {
		t.Errorf("child attributes missing from output: %q", buf.String())
	}
}

func TestPackageLevelHelpers(t *testing.T) {
	old := logger.Default
	defer func() { logger.Default = old }()

	buf := &bytes.Buffer{}
	logger.Default = logger.New(logger.Config{
		Level:  logger.LevelDebug,
		Format: logger.FormatText,
		Output: buf,
	})

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.With("k", "v").Info("child")

	out := buf.String()
	for _, want := range []string{"msg=d", "msg=i", "msg=w", "msg=e", "k=v"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}
