package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logrus instance behind the tagged helpers.
var Log = newLog(os.Stdout)

func newLog(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// SetLevel sets the log level from a string.
// Accepted values: debug, info, warn (warning), error, fatal.
func SetLevel(level string) error {
	// trace and panic levels are not used
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "info", "":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

func tagged(tag string) *logrus.Entry {
	return Log.WithField("tag", tag)
}

// Debug logs a debug message under tag.
func Debug(tag, msg string) { tagged(tag).Debug(msg) }

// Info logs an informational message under tag.
func Info(tag, msg string) { tagged(tag).Info(msg) }

// Success logs a completed step under tag.
func Success(tag, msg string) { tagged(tag).WithField("ok", true).Info(msg) }

// Warn logs a warning under tag.
func Warn(tag, msg string) { tagged(tag).Warn(msg) }

// Error logs an error under tag.
func Error(tag, msg string) { tagged(tag).Error(msg) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	Log.WithField("version", version).Info("Market Quick Price")
}

// Section logs a section header.
func Section(title string) {
	Log.Info("── " + title + " ──")
}

// Stats logs a single key/value statistic.
func Stats(key string, value interface{}) {
	Log.WithField(key, value).Info("stat")
}

// Server logs the listen address.
func Server(addr string) {
	tagged("Server").Info("Listening on http://" + addr)
}
