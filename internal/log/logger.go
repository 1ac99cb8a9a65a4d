// Package log provides the leveled, structured logger used across cialist.
// It wraps logrus with the small field-based API the rest of the code uses.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"cialist/internal/errors"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log output to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to JSON encoding
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log output to the named file
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// Logger is a leveled logger carrying a set of fields
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a logger. Without options it writes text to stdout.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open %s: %v\n", o.file, err)
		} else {
			l.file = f
			out = io.MultiWriter(o.out, f)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package-level logger
func Default() *Logger {
	return logger
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports whether debug output is enabled
func IsDebug() bool {
	return isDebug.Load()
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data), file: l.file}
}

// WithError attaches err and, for typed errors, its kind and subject
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	return l.With(fields...)
}

// WithContext binds ctx to the entry; a nil context is ignored
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// Close releases the log file opened by WithFile, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Debug(args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debug(args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

func (l *Logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// LogWithFields returns the package-level logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package-level logger with err attached
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a formatted message when debug output is enabled
func Debug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

func Warn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}
