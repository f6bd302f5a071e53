package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type Logger struct {
	level Level
	entry *logrus.Entry
}

func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, os.Stdout)
}

// NewWithWriter builds a logger writing to w, mostly useful in tests.
func NewWithWriter(levelStr string, w io.Writer) *Logger {
	level := parseLevel(levelStr)

	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	base.SetLevel(toLogrus(level))

	return &Logger{
		level: level,
		entry: logrus.NewEntry(base),
	}
}

func parseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func toLogrus(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// With returns a child logger that tags every line with the given field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		level: l.level,
		entry: l.entry.WithField(key, value),
	}
}

func (l *Logger) Debug(v ...interface{}) {
	l.entry.Debug(fmt.Sprint(v...))
}

func (l *Logger) Info(v ...interface{}) {
	l.entry.Info(fmt.Sprint(v...))
}

func (l *Logger) Warn(v ...interface{}) {
	l.entry.Warn(fmt.Sprint(v...))
}

func (l *Logger) Error(v ...interface{}) {
	l.entry.Error(fmt.Sprint(v...))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.entry.Fatal(fmt.Sprint(v...))
}
