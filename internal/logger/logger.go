// Package logger holds the process-wide logger used by the engine and ndctl.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// EnvAllocLog enables allocator debug logging when set to any non-empty value.
const EnvAllocLog = "NDKIT_LOG_ALLOC"

// L is the shared logger. Library code logs through it at Debug for routine
// events (growth, reopen, flush) and at Warn for anomalies it recovered from.
var L = New(os.Stderr)

// AllocDebug reports whether allocator debug logging was requested through
// the environment. It is read once at startup.
var AllocDebug = os.Getenv(EnvAllocLog) != ""

// New builds a logger writing to out with the prefixed text formatter.
func New(out io.Writer) *logrus.Logger {
	level := logrus.InfoLevel
	if AllocDebug {
		level = logrus.DebugLevel
	}
	return &logrus.Logger{
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: level,
		Formatter: &prefixed.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
			ForceFormatting: true,
		},
	}
}

// Discard returns a logger that drops everything, for tests and quiet tools.
func Discard() *logrus.Logger {
	l := New(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
