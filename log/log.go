// Package log wraps logrus behind the logs.* configuration keys. Nothing is emitted unless logs.write is set.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anisan-cli/anibridge/filesystem"
	"github.com/anisan-cli/anibridge/key"
	"github.com/anisan-cli/anibridge/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var enabled bool

// Fields is a set of structured key/value pairs attached to an entry.
type Fields = logrus.Fields

// Setup opens the daily log file and applies the configured formatter and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Entry is a logrus entry that respects the enabled flag.
type Entry struct {
	e *logrus.Entry
}

// With starts an entry carrying the given fields.
func With(fields Fields) Entry {
	return Entry{e: logrus.WithFields(fields)}
}

func (e Entry) Debug(args ...any) {
	if enabled {
		e.e.Debug(args...)
	}
}

func (e Entry) Info(args ...any) {
	if enabled {
		e.e.Info(args...)
	}
}

func (e Entry) Warn(args ...any) {
	if enabled {
		e.e.Warn(args...)
	}
}

func (e Entry) Error(args ...any) {
	if enabled {
		e.e.Error(args...)
	}
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debug(args ...any) {
	if enabled {
		logrus.Debug(args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
