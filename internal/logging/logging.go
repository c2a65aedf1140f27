// Package logging provides the structured logger threaded through every
// engine component. It implements the capability.Logger interface.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents the severity of a log message.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

var levelPriority = map[Level]int{
	DebugLevel: 0,
	InfoLevel:  1,
	WarnLevel:  2,
	ErrorLevel: 3,
}

// Format is the output encoding for log lines.
type Format string

const (
	JSONFormat  Format = "json"
	HumanFormat Format = "human"
)

// Config configures a Logger.
type Config struct {
	Format Format
	Level  Level
	Output io.Writer // defaults to stdout
}

// Logger is a small structured logger with leveled, field-carrying entries.
type Logger struct {
	config Config
	writer io.Writer
}

// NewLogger constructs a Logger from Config.
func NewLogger(config Config) *Logger {
	writer := config.Output
	if writer == nil {
		writer = os.Stdout
	}
	if config.Level == "" {
		config.Level = InfoLevel
	}
	if config.Format == "" {
		config.Format = HumanFormat
	}
	return &Logger{config: config, writer: writer}
}

// NewDiscardLogger returns a Logger that drops every entry, used where a
// caller needs a non-nil Logger but has no destination configured.
func NewDiscardLogger() *Logger {
	return NewLogger(Config{Output: io.Discard, Level: ErrorLevel})
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

func (l *Logger) shouldLog(level Level) bool {
	return levelPriority[level] >= levelPriority[l.config.Level]
}

func (l *Logger) log(level Level, message string, fields map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if l.config.Format == JSONFormat {
		l.logJSON(e)
	} else {
		l.logHuman(e)
	}
}

func (l *Logger) logJSON(e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintln(l.writer, string(data))
}

func (l *Logger) logHuman(e entry) {
	if len(e.Fields) == 0 {
		fmt.Fprintf(l.writer, "%s [%s] %s\n", e.Timestamp, e.Level, e.Message)
		return
	}
	fmt.Fprintf(l.writer, "%s [%s] %s %v\n", e.Timestamp, e.Level, e.Message, e.Fields)
}

// Debug logs a debug-level entry.
func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.log(DebugLevel, message, fields)
}

// Info logs an info-level entry.
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.log(InfoLevel, message, fields)
}

// Warn logs a warn-level entry.
func (l *Logger) Warn(message string, fields map[string]interface{}) {
	l.log(WarnLevel, message, fields)
}

// Error logs an error-level entry.
func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.log(ErrorLevel, message, fields)
}
