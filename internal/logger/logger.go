// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"
)

type Config struct {
	Level      string
	Format     string // "json" or "text"
	Output     string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Init applies cfg to the standard logrus logger. File output rotates through
// lumberjack.
func Init(cfg Config) error {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out, err := writer(cfg)
	if err != nil {
		return err
	}
	logrus.SetOutput(out)
	return nil
}

func writer(cfg Config) (io.Writer, error) {
	switch cfg.Output {
	case "", OutputStdout:
		return os.Stdout, nil
	case OutputFile, OutputBoth:
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	if cfg.FilePath == "" {
		return nil, fmt.Errorf("log file path is required for output %q", cfg.Output)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	if cfg.Output == OutputFile {
		return file, nil
	}
	return io.MultiWriter(os.Stdout, file), nil
}
