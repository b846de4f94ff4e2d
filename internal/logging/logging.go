package logging

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls which of the leveled loggers write output.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelNone
)

var levelNames = map[Level]string{
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelError:   "error",
	LevelNone:    "none",
}

func (l Level) String() string {
	s, ok := levelNames[l]
	if !ok {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return s
}

// ParseLevel converts a level name like "debug" or "WARNING" to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		name = "warning"
	}
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("invalid log level %q", s)
}

var (
	mx      sync.Mutex
	level   Level
	out     io.Writer = os.Stderr
	debug   *log.Logger
	info    *log.Logger
	warning *log.Logger
	errlog  *log.Logger
)

func init() {
	flags := log.Ldate | log.Ltime | log.LUTC
	debug = log.New(ioutil.Discard, "D ", flags)
	info = log.New(ioutil.Discard, "I ", flags)
	warning = log.New(ioutil.Discard, "W ", flags)
	errlog = log.New(ioutil.Discard, "E ", flags)

	SetLevel(LevelWarning)
}

// SetLevel enables all loggers at or above the given level.
func SetLevel(l Level) {
	mx.Lock()
	defer mx.Unlock()
	level = l
	apply()
}

// SetOutput redirects all enabled loggers to w.
func SetOutput(w io.Writer) {
	mx.Lock()
	defer mx.Unlock()
	out = w
	apply()
}

// CurrentLevel returns the active log level.
func CurrentLevel() Level {
	mx.Lock()
	defer mx.Unlock()
	return level
}

func apply() {
	loggers := []*log.Logger{debug, info, warning, errlog}
	for i, lg := range loggers {
		if Level(i) >= level {
			lg.SetOutput(out)
		} else {
			lg.SetOutput(ioutil.Discard)
		}
	}
}

func Debug(msg string, v ...interface{}) {
	debug.Printf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	info.Printf(msg, v...)
}

func Warning(msg string, v ...interface{}) {
	warning.Printf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	errlog.Printf(msg, v...)
}
