// Package log writes diagnostics to a daily file under the logs directory when logs.write is on.
// Nothing is emitted otherwise, so the terminal stays free for the player overlay.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kinogram/kino/filesystem"
	"github.com/kinogram/kino/key"
	"github.com/kinogram/kino/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Retention is how long daily log files are kept.
const Retention = 7 * 24 * time.Hour

const dayLayout = "2006-01-02"

var enabled bool

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	now := time.Now()
	f, err := filesystem.API().OpenFile(
		filepath.Join(dir, now.Format(dayLayout)+".log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if n, err := prune(dir, now); err != nil {
		logrus.Warnf("log: prune %s: %v", dir, err)
	} else if n > 0 {
		logrus.Debugf("log: removed %d old log files", n)
	}
	return nil
}

// prune removes daily log files older than Retention. Other files are left alone.
func prune(dir string, now time.Time) (int, error) {
	entries, err := afero.ReadDir(filesystem.API(), dir)
	if err != nil {
		return 0, err
	}

	var removed int
	for _, entry := range entries {
		day, err := time.ParseInLocation(dayLayout, strings.TrimSuffix(entry.Name(), ".log"), now.Location())
		if entry.IsDir() || err != nil || now.Sub(day) <= Retention {
			continue
		}
		if err := filesystem.API().Remove(filepath.Join(dir, entry.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Entry carries structured fields, such as the session a message belongs to.
type Entry struct {
	entry *logrus.Entry
}

func WithField(key string, value any) Entry {
	return Entry{entry: logrus.WithField(key, value)}
}

func (e Entry) WithField(key string, value any) Entry {
	return Entry{entry: e.entry.WithField(key, value)}
}

func (e Entry) Errorf(format string, args ...any) {
	if enabled {
		e.entry.Errorf(format, args...)
	}
}

func (e Entry) Warnf(format string, args ...any) {
	if enabled {
		e.entry.Warnf(format, args...)
	}
}

func (e Entry) Infof(format string, args ...any) {
	if enabled {
		e.entry.Infof(format, args...)
	}
}

func (e Entry) Debugf(format string, args ...any) {
	if enabled {
		e.entry.Debugf(format, args...)
	}
}

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}

func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}

func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}

func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
