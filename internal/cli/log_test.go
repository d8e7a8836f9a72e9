package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Generated level 3")

	if !strings.Contains(buf.String(), "Generated level 3") {
		t.Errorf("progress output %q should contain the message", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}

	h.OnLevelGenerated(3, 10, 12, 4, time.Millisecond, nil)
	h.OnLevelSolved(3, time.Second)
	h.OnStoreOp(context.Background(), "file", "put", 100, time.Millisecond, nil)
	h.OnResponse(context.Background(), "GET", "/healthz", 200, time.Millisecond)
	if buf.Len() != 0 {
		t.Errorf("routine events should not log at info level, got %q", buf.String())
	}

	h.OnLevelGenerated(4, 0, 0, 0, time.Millisecond, errors.New("boom"))
	if !strings.Contains(buf.String(), "level generation failed") {
		t.Errorf("failed generation should be logged, got %q", buf.String())
	}

	buf.Reset()
	h.OnResponse(context.Background(), "POST", "/api/games", 500, time.Millisecond)
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("server errors should be logged, got %q", buf.String())
	}
}
