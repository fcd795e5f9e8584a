// Package log provides an optional file-backed debug log.
//
// Progress events remain the user-facing surface of the application; this
// log captures fetch, parse and tag internals for troubleshooting. It is
// disabled unless switched on in the settings, in which case entries go
// to a date-named file under the user cache directory.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CHollingworth/magnus-downloader/internal/fsutil"
)

// enabled indicates the persistent logging state for the active run.
var enabled bool

// Setup initializes the logging subsystem.
//
// When write is false all subsequent log emissions are silently
// discarded. Otherwise entries are appended to
// <user cache dir>/magnus-downloader/<date>.log, formatted as text or
// JSON, filtered by the given level ("debug", "info", "warning",
// "error"; unknown levels fall back to info).
func Setup(write bool, level string, asJSON bool) error {
	enabled = write
	if !enabled {
		return nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	dir := filepath.Join(base, "magnus-downloader")
	if err := fsutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("log directory: %w", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := fsutil.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if asJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...interface{}) {
	if enabled {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
