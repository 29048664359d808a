package utilities

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{" error ", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestLogFiltersBelowMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelWarn)
	defer CloseLogging()

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("entries below WARN leaked: %q", out)
	}
	if !strings.Contains(out, "WARNING: ") || !strings.Contains(out, "warn 3") {
		t.Fatalf("missing warn entry: %q", out)
	}
	if !strings.Contains(out, "ERROR: ") || !strings.Contains(out, "error 4") {
		t.Fatalf("missing error entry: %q", out)
	}
}

func TestLogIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelDebug)
	defer CloseLogging()

	Info("hello")
	if !strings.Contains(buf.String(), "TestLogIncludesCaller") {
		t.Fatalf("caller missing from %q", buf.String())
	}
}

func TestSetupLoggingWritesRotatingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := SetupLogging(LogOptions{Dir: dir, Level: LevelInfo, MaxSizeMB: 1}); err != nil {
		t.Fatalf("SetupLogging: %v", err)
	}
	Info("to info file")
	Error("to error file")
	CloseLogging()

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	if err != nil {
		t.Fatalf("read info.log: %v", err)
	}
	if !strings.Contains(string(info), "to info file") {
		t.Fatalf("info.log = %q", info)
	}
	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("read error.log: %v", err)
	}
	if !strings.Contains(string(errs), "to error file") {
		t.Fatalf("error.log = %q", errs)
	}
}
