package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger printf-логгер поверх logrus.
// Пишет в stdout и, если задан файл, дублирует записи в него.
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

type appNameHook struct {
	appName string
}

func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New создает логгер.
// file - путь к файлу логов (пустая строка - только stdout), level - debug/info/warn/error.
func New(file, level string) (*Logger, error) {
	return NewWithOutput(os.Stdout, file, level, "")
}

// NewWithOutput создает логгер с произвольным основным выводом и именем приложения в префиксе.
func NewWithOutput(out io.Writer, file, level, appName string) (*Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	l.SetLevel(lvl)

	if appName != "" {
		l.AddHook(&appNameHook{appName: appName})
	}

	result := &Logger{entry: l}

	if file == "" {
		l.SetOutput(out)
		return result, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", file, err)
	}
	l.SetOutput(io.MultiWriter(out, f))
	result.file = f

	return result, nil
}

func parseLevel(level string) (logrus.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Fatal логирует сообщение и завершает процесс с кодом 1
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.entry.Fatalf(format, v...)
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
