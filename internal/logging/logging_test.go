package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarning,
		"warning": LevelWarning,
		" error ": LevelError,
		"none":    LevelNone,
	}
	for s, expected := range cases {
		l, err := ParseLevel(s)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", s, err)
		}
		if l != expected {
			t.Errorf("wrong level for %q: %v != %v", s, l, expected)
		}
	}

	_, err := ParseLevel("verbose")
	if err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelWarning)

	SetLevel(LevelWarning)
	Debug("hidden %d", 1)
	Warning("shown %d", 2)

	s := buf.String()
	if strings.Contains(s, "hidden") {
		t.Errorf("debug message written at warning level: %q", s)
	}
	if !strings.Contains(s, "W shown 2") {
		t.Errorf("warning message missing: %q", s)
	}

	buf.Reset()
	SetLevel(LevelNone)
	Error("silent")
	if buf.Len() != 0 {
		t.Errorf("output written at level none: %q", buf.String())
	}
}
