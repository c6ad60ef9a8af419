package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a log verbosity, ordered from most to least verbose
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	backend logging.LeveledBackend
	current = Notice
)

// Logger is the leveled logger handed out by New. It also satisfies core.Logger.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Notice(v ...interface{})
	Noticef(format string, v ...interface{})
	Warning(v ...interface{})
	Warningf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a logger whose lines are tagged with module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects every logger to w, keeping the current level
func SetSink(w io.Writer) {
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	backend.SetLevel(backendLevels[current], "")
	logging.SetBackend(backend)
}

// SetLevel drops messages less severe than level. Unknown levels are ignored.
func SetLevel(level Level) {
	mapped, ok := backendLevels[level]
	if !ok {
		return
	}
	current = level
	backend.SetLevel(mapped, "")
}

// CurrentLevel returns the level last passed to SetLevel
func CurrentLevel() Level {
	return current
}

// stdout may carry image data
func init() {
	SetSink(os.Stderr)
}
