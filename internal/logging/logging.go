// Package logging sets up structured logging in an E!/W!/I!/D!
// level-prefix convention, backed by logrus and rotated with lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// prefixFormatter renders "E! message key=value ...\n", matching the
// bang-prefix convention instead of logrus's default text layout.
type prefixFormatter struct{}

func (prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	prefix := "I!"
	switch e.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		prefix = "E!"
	case logrus.WarnLevel:
		prefix = "W!"
	case logrus.DebugLevel, logrus.TraceLevel:
		prefix = "D!"
	}

	msg := fmt.Sprintf("%s %s", prefix, e.Message)
	for k, v := range e.Data {
		msg += fmt.Sprintf(" %s=%v", k, v)
	}
	msg += "\n"
	return []byte(msg), nil
}

// Config controls where logs go and how verbose they are. An empty Path
// logs to stderr instead of a rotated file.
type Config struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// New builds a logrus.Logger per cfg. Callers own the returned logger for
// the lifetime of the process; there's no global logger to configure.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(prefixFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	var out io.Writer = os.Stderr
	if cfg.Path != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
	}
	logger.SetOutput(out)
	return logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
