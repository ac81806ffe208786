package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("loading dataset")
			if got := strings.Contains(buf.String(), "loading dataset"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			l.Info("rendered")
			if !strings.Contains(buf.String(), "rendered") {
				t.Error("info line missing")
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Loaded AAPL")
	out := buf.String()
	if !strings.Contains(out, "Loaded AAPL") || !strings.Contains(out, "took=") {
		t.Errorf("progress line = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}
	l := newLogger(&bytes.Buffer{}, log.WarnLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
	if loggerFromContext(withLogger(context.Background(), nil)) != log.Default() {
		t.Error("nil logger should fall back to default")
	}
}
