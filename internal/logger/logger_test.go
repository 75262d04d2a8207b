package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebug_SilentByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetVerbose(false)
	t.Cleanup(func() { SetOutput(os.Stderr); SetVerbose(false) })

	Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDebug_VerboseEnabled(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetVerbose(true)
	t.Cleanup(func() { SetVerbose(false) })

	Debug("crawling %s", "https://example.com")
	out := buf.String()
	if !strings.Contains(out, "[DEBUG]") || !strings.Contains(out, "https://example.com") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSection(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	SetVerbose(true)
	t.Cleanup(func() { SetVerbose(false) })

	Section("Crawl")
	if !strings.Contains(buf.String(), "=== Crawl ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestIsVerbose(t *testing.T) {
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be enabled")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be disabled")
	}
}
