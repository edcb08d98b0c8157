// Package log provides structured logging backed by logrus, with a rotating file or stderr as its sink.
package log

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/filmscout/filmscout/constant"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// enabled indicates the persistent logging state for the active application instance.
var enabled bool

// discard backs field entries while logging is disabled.
var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Setup initializes the logging subsystem, including the sink, formatting, and severity level based on global configuration.
// If logging is disabled, all subsequent log emissions are silently discarded.
func Setup() error {
	toStderr := viper.GetBool(key.LogsStderr)
	enabled = viper.GetBool(key.LogsWrite) || toStderr
	if !enabled {
		return nil
	}

	if toStderr {
		logrus.SetOutput(os.Stderr)
	} else {
		dir := where.Logs()
		if dir == "" {
			return errors.New("log directory path is empty")
		}

		logrus.SetOutput(&lumberjack.Logger{
			Filename:   filepath.Join(dir, constant.App+".log"),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     14,
		})
	}

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl := viper.GetString(key.LogsLevel)
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// WithField returns an entry carrying a single structured field.
func WithField(k string, v any) *logrus.Entry {
	if !enabled {
		return discard.WithField(k, v)
	}
	return logrus.WithField(k, v)
}

// Severity-Specific Log Emissions - these functions proxy messages to the configured backend when logging is enabled.

func Panic(args ...interface{}) {
	if enabled {
		logrus.Panic(args...)
	}
}
func Panicf(format string, args ...interface{}) {
	if enabled {
		logrus.Panicf(format, args...)
	}
}
func Fatal(args ...interface{}) {
	if enabled {
		logrus.Fatal(args...)
	}
}
func Fatalf(format string, args ...interface{}) {
	if enabled {
		logrus.Fatalf(format, args...)
	}
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
func Trace(args ...interface{}) {
	if enabled {
		logrus.Trace(args...)
	}
}
func Tracef(format string, args ...interface{}) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
