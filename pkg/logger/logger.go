package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = logrus.Level

const (
	DEBUG = logrus.DebugLevel
	INFO  = logrus.InfoLevel
	WARN  = logrus.WarnLevel
	ERROR = logrus.ErrorLevel
)

type Logger struct {
	base *logrus.Logger
}

// ParseLevel maps DEBUG/INFO/WARN/ERROR (any case) to a level, defaulting to INFO.
func ParseLevel(level string) Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func New(level string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(ParseLevel(level))
	return &Logger{base: base}
}

// WithFile mirrors every entry into a rotated log file.
func (l *Logger) WithFile(path string, maxAgeDays int) (*Logger, error) {
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 30,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	hook := lfshook.NewHook(lfshook.WriterMap{
		logrus.PanicLevel: rotated,
		logrus.FatalLevel: rotated,
		logrus.ErrorLevel: rotated,
		logrus.WarnLevel:  rotated,
		logrus.InfoLevel:  rotated,
		logrus.DebugLevel: rotated,
	}, &logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.base.AddHook(hook)
	return l, nil
}

// SetOutput redirects console output.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// WithField returns an entry carrying one structured field.
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.base.WithField(key, value)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.base.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.base.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.base.Errorf(format, v...)
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.base.Debugf(format, v...)
}
