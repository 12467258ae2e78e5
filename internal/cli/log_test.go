package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("loaded hierarchy") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("cache miss") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("cache miss") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("malformed hierarchy") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerKeyValues(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("loaded hierarchy", "part", "42", "nodes", 7)

	out := buf.String()
	for _, want := range []string{"loaded hierarchy", "part=42", "nodes=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rendered Robot")

	out := buf.String()
	if !strings.Contains(out, "Rendered Robot (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
}

func TestSetupAttachesLogger(t *testing.T) {
	env := newTestEnv(t, "")
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.getenv = func(string) string { return "" }

	cmd := c.RootCommand()
	if err := cmd.ParseFlags([]string{"--config", env.config}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if c.configPath != env.config {
		t.Fatalf("configPath = %q, want %q", c.configPath, env.config)
	}
	cmd.SetContext(context.Background())
	if err := c.setup(cmd, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if loggerFromContext(cmd.Context()) != c.Logger {
		t.Error("setup did not attach the CLI logger")
	}
	if c.Config.Cache.Backend != "none" {
		t.Errorf("config not loaded: backend = %q", c.Config.Cache.Backend)
	}
}
