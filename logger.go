package ninjacatalog

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger is the logging surface used by crawlers and parsers.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})
	Summary(format string, args ...interface{})
	Html(html, url, msg string)
}

// defaultLogger writes emoji-tagged lines through the standard log package.
type defaultLogger struct {
	logger  *log.Logger
	htmlDir string
}

// newDefaultLogger logs to stdout and, when toFile is set, to
// storage/logs/<site>/<date>_application.log.
func newDefaultLogger(siteName string, toFile bool) *defaultLogger {
	if !toFile {
		return &defaultLogger{logger: log.New(os.Stdout, "⏱️ ", log.LstdFlags)}
	}

	currentDate := time.Now().Format("2006-01-02")
	directory := filepath.Join("storage", "logs", siteName)
	if err := os.MkdirAll(directory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	logFilePath := filepath.Join(directory, currentDate+"_application.log")
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	multiWriter := io.MultiWriter(file, os.Stdout)

	return &defaultLogger{
		logger:  log.New(multiWriter, "⏱️ ", log.LstdFlags),
		htmlDir: filepath.Join(directory, "html"),
	}
}

// NewLogger returns a Logger writing to w. Html dumps are only logged.
func NewLogger(siteName string, w io.Writer) Logger {
	return &defaultLogger{logger: log.New(w, "⏱️ ["+siteName+"] ", log.LstdFlags)}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.logger.Printf("📢 INFO: "+format, args...)
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	l.logger.Printf("⚠️ WARN: "+format, args...)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	l.logger.Printf("🐞 DEBUG: "+format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.logger.Printf("🛑 ERROR: "+format, args...)
}

func (l *defaultLogger) Fatal(format string, args ...interface{}) {
	l.logger.Fatalf("🚨 FATAL: "+format, args...)
}

func (l *defaultLogger) Summary(format string, args ...interface{}) {
	l.logger.Printf("📊 SUMMARY: "+format, args...)
}

// Html logs msg and dumps the page next to the log file for later inspection.
func (l *defaultLogger) Html(html, url, msg string) {
	l.Error("%s: %s", url, msg)
	if l.htmlDir == "" {
		return
	}
	if err := writePageContentToFile(l.htmlDir, html, url, msg); err != nil {
		l.logger.Printf("⚛️ HTML: %v", err)
	}
}
