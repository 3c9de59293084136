package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Leveled logger shared by the dashboard service.
// - package-level API so any package can log without plumbing a logger through
// - backed by logrus; Init(level) picks the level, SetFormat picks text or JSON output

var (
	mu  sync.RWMutex
	log = newLogrus()
)

func newLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		log.SetLevel(logrus.FatalLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetFormat switches between human readable output (development) and JSON lines.
func SetFormat(environment string) {
	mu.Lock()
	defer mu.Unlock()
	if environment == "development" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	log.SetFormatter(&logrus.JSONFormatter{})
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debugf(format string, v ...interface{}) { current().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Errorf(format, v...) }

func Fatalf(format string, v ...interface{}) {
	current().Errorf(format, v...)
	os.Exit(1)
}

// WithFields returns an entry carrying structured fields, e.g. user or request ids.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return current().WithFields(logrus.Fields(fields))
}

// LevelString returns the current level as text.
func LevelString() string {
	switch current().GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}
