package core

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	DebugLevel LogLevel = log.DebugLevel
	InfoLevel  LogLevel = log.InfoLevel
	WarnLevel  LogLevel = log.WarnLevel
	ErrorLevel LogLevel = log.ErrorLevel
	FatalLevel LogLevel = log.FatalLevel
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				CallerOffset:    1,
				Prefix:          "anywindow 🪟 ",
			})
			l.SetLevel(log.InfoLevel)
			singleton = &logger{l}
		})
	return singleton
}

// SetLogLevel changes the minimum level written by the Log* helpers.
func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(level)
}

// ParseLogLevel maps a config value such as "debug" or "WARN" to a LogLevel.
// An empty value means info.
func ParseLogLevel(s string) (LogLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

// LogFatal logs at fatal level and exits the process with status 1.
func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
