package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level orders log severities from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a config string to a Level. Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// LogOptions configures file output and rotation.
type LogOptions struct {
	Dir        string
	Level      Level
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	debugLog *log.Logger
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	minLevel = LevelInfo
	logFiles []*lumberjack.Logger
	logMutex sync.Mutex
)

func init() {
	resetLoggers(os.Stdout, os.Stdout, os.Stderr)
}

func resetLoggers(info, warn, errw io.Writer) {
	debugLog = log.New(info, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog = log.New(info, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(warn, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errw, "ERROR: ", log.Ldate|log.Ltime)
}

// SetupLogging routes log output to stdout/stderr and to rotating
// info.log, warn.log and error.log files under opts.Dir.
// An empty Dir keeps console-only output.
func SetupLogging(opts LogOptions) error {
	logMutex.Lock()
	defer logMutex.Unlock()

	minLevel = opts.Level
	closeFilesLocked()

	if opts.Dir == "" {
		resetLoggers(os.Stdout, os.Stdout, os.Stderr)
		return nil
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	infoFile := openLogFile(filepath.Join(opts.Dir, "info.log"), opts)
	warnFile := openLogFile(filepath.Join(opts.Dir, "warn.log"), opts)
	errorFile := openLogFile(filepath.Join(opts.Dir, "error.log"), opts)
	logFiles = []*lumberjack.Logger{infoFile, warnFile, errorFile}

	infoWriter := io.MultiWriter(os.Stdout, infoFile)
	warnWriter := io.MultiWriter(os.Stdout, warnFile)
	errorWriter := io.MultiWriter(os.Stderr, errorFile)
	resetLoggers(infoWriter, warnWriter, errorWriter)

	// Override Go's default log
	log.SetOutput(infoWriter)
	return nil
}

// SetOutput sends every level to w. Used by tests to capture output.
func SetOutput(w io.Writer, level Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	closeFilesLocked()
	minLevel = level
	resetLoggers(w, w, w)
}

// CloseLogging flushes and closes rotating log files.
func CloseLogging() {
	logMutex.Lock()
	defer logMutex.Unlock()
	closeFilesLocked()
	resetLoggers(os.Stdout, os.Stdout, os.Stderr)
	log.SetOutput(os.Stderr)
}

func closeFilesLocked() {
	for _, f := range logFiles {
		_ = f.Close()
	}
	logFiles = nil
}

func openLogFile(path string, opts LogOptions) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// Log writes one entry at the given level. Entries below the configured
// minimum level are dropped.
func Log(level Level, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if level < minLevel {
		return
	}

	message := fmt.Sprintf(format, v...)
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), message)

	switch level {
	case LevelDebug:
		debugLog.Println(logEntry)
	case LevelWarn:
		warnLog.Println(logEntry)
	case LevelError:
		errorLog.Println(logEntry)
	default:
		infoLog.Println(logEntry)
	}
}

func Debug(format string, v ...interface{}) {
	Log(LevelDebug, format, v...)
}

func Info(format string, v ...interface{}) {
	Log(LevelInfo, format, v...)
}

func Warn(format string, v ...interface{}) {
	Log(LevelWarn, format, v...)
}

func Error(format string, v ...interface{}) {
	Log(LevelError, format, v...)
}
