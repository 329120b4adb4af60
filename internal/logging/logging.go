// Package logging decides where log output goes.
package logging

import (
	"alcyxob/fitness-tracker/internal/config"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewWriter returns stderr, or a size-rotated file when cfg.File is set.
// The caller closes it on shutdown.
func NewWriter(cfg config.LogConfig) io.WriteCloser {
	if cfg.File == "" {
		return nopCloser{os.Stderr}
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

// Setup points the standard logger at the configured destination and
// returns the writer so component loggers can share it.
func Setup(cfg config.LogConfig) io.WriteCloser {
	w := NewWriter(cfg)
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
	return w
}

// New returns a component logger writing to w with a "[name] " prefix.
func New(w io.Writer, name string) *log.Logger {
	return log.New(w, "["+name+"] ", log.LstdFlags)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
