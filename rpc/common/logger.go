package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"log"
	"os"
	"strings"
	"sync"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragenboats logger.ILogger)
// --------------------------------------------------------------------------

// treeLogger implements the ILogger interface with custom formatting
type treeLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *treeLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *treeLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *treeLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *treeLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *treeLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *treeLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *treeLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements the Factory interface - note the error return value
func CreateLogger(pkgName string) logger.ILogger {
	// Create standard logger with custom flags
	stdLogger := log.New(os.Stdout, "", log.Ldate|log.Ltime)

	return &treeLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: stdLogger,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel converts a string level to logger.LogLevel
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG
	case "info":
		return logger.INFO
	case "warning", "warn":
		return logger.WARNING
	case "error":
		return logger.ERROR
	default:
		panic(fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error", level))
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

var factoryOnce sync.Once

// InitLoggers installs the custom log format and sets the level of all loggers.
// It panics if level is not one of debug, info, warn, error.
func InitLoggers(level string) {
	lvl := parseLogLevel(level)

	// Set as the global logger factory for Dragonboat
	factoryOnce.Do(func() { logger.SetLoggerFactory(CreateLogger) })

	// Configure Dragonboat loggers
	logger.GetLogger("raft").SetLevel(lvl)
	logger.GetLogger("raftdb").SetLevel(lvl)
	logger.GetLogger("rsm").SetLevel(lvl)
	logger.GetLogger("transport").SetLevel(lvl)
	logger.GetLogger("dragonboat").SetLevel(lvl)
	logger.GetLogger("grpc").SetLevel(lvl)
	logger.GetLogger("util").SetLevel(lvl)
	logger.GetLogger("logdb").SetLevel(lvl)

	// Configure our own loggers
	logger.GetLogger("tree").SetLevel(lvl)
	logger.GetLogger("pool").SetLevel(lvl)
	logger.GetLogger("ycsb").SetLevel(lvl)
	logger.GetLogger("transport/rpc").SetLevel(lvl)
	logger.GetLogger("rpc").SetLevel(lvl)
	logger.GetLogger("cmd").SetLevel(lvl)
}
