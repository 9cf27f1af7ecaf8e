package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envLogFormat, "json")

	cfg := defaultConfig()
	if cfg.level != slog.LevelDebug {
		t.Errorf("level = %v, want DEBUG", cfg.level)
	}
	if cfg.format != FormatJSON {
		t.Errorf("format = %v, want json", cfg.format)
	}
	if cfg.output != os.Stderr {
		t.Errorf("output = %v, want os.Stderr", cfg.output)
	}
	if cfg.colors || cfg.logger != nil {
		t.Errorf("colors = %v, logger = %v, want false, nil", cfg.colors, cfg.logger)
	}
}

func TestApplyOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := applyOptions(
		WithFormat(FormatJSON),
		WithLevel(slog.LevelError),
		WithOutput(&buf),
		WithColors(true),
		nil,
		WithLogger(logger),
	)
	if cfg.format != FormatJSON || cfg.level != slog.LevelError || cfg.output != &buf || !cfg.colors || cfg.logger != logger {
		t.Errorf("applyOptions() = %+v", cfg)
	}
}
