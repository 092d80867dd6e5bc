package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teltech/logger"

	_ "github.com/pstuifzand/go-textconv/internal/logenv"
)

// Logs go to stderr; stdout carries converted text only.
var log *logger.Log

func init() {
	log = logger.New().WithOutput(os.Stderr)
}

// withLevel returns a copy of l logging at the named level
func withLevel(l *logger.Log, level string) (*logger.Log, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return l.WithLevel(logger.DEBUG), nil
	case "INFO":
		return l.WithLevel(logger.INFO), nil
	case "WARN", "WARNING":
		return l.WithLevel(logger.WARN), nil
	case "ERROR":
		return l.WithLevel(logger.ERROR), nil
	case "CRITICAL":
		return l.WithLevel(logger.CRITICAL), nil
	}
	return nil, fmt.Errorf("invalid log level %q: want debug, info, warn, error or critical", level)
}

// setLogLevel switches the package logger to level
func setLogLevel(level string) error {
	l, err := withLevel(log, level)
	if err != nil {
		return err
	}
	log = l
	return nil
}
