// Package logging wraps rs/zerolog with the component-tagging and
// global-logger conventions the teacher repo's logger package uses,
// trimmed to what a leaf library needs: no log-file rotation, no
// request/trace-context enrichment (that's an HTTP-service concern the
// stream core never touches).
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with a component tag.
type Logger struct {
	logger zerolog.Logger
}

// New creates a Logger from cfg, tagged with component.
func New(cfg *Config, component string) *Logger {
	cfg.ApplyDefaults()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var zl zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: outputWriter(cfg.Output), NoColor: cfg.NoColor})
	} else {
		zl = zerolog.New(outputWriter(cfg.Output))
	}
	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	if component != "" {
		zl = zl.With().Str("component", component).Logger()
	}
	return &Logger{logger: zl}
}

// NewDefault creates a Logger with console output at info level.
func NewDefault(component string) *Logger {
	cfg := &Config{Level: "info", Format: "console", Output: "stdout"}
	return New(cfg, component)
}

// WithComponent returns a copy of l tagged with an additional component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	event := l.logger.Debug()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	event := l.logger.Info()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...map[string]any) {
	event := l.logger.Warn()
	addFields(event, fields...)
	event.Msg(msg)
}

func (l *Logger) Error(msg string, fields ...map[string]any) {
	event := l.logger.Error()
	addFields(event, fields...)
	event.Msg(msg)
}

// Fatal logs at fatal level and terminates the process via os.Exit(1), the
// closest Go analogue to a host runtime crashing on an uncaught programming
// error (double done() callback, source reattachment, etc.).
func (l *Logger) Fatal(msg string, fields ...map[string]any) {
	event := l.logger.Fatal()
	addFields(event, fields...)
	event.Msg(msg)
}

var global *Logger

// SetGlobal installs l as the package-level logger used by Debug/Info/...
func SetGlobal(l *Logger) { global = l }

// Global returns the package-level logger, creating a default one on first use.
func Global() *Logger {
	if global == nil {
		global = NewDefault("")
	}
	return global
}

func Debug(msg string, fields ...map[string]any) { Global().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { Global().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { Global().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { Global().Error(msg, fields...) }
func Fatal(msg string, fields ...map[string]any) { Global().Fatal(msg, fields...) }

func addFields(event *zerolog.Event, fields ...map[string]any) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

func outputWriter(output string) *os.File {
	if strings.ToLower(output) == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
