package junction

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel represents the logging level
type LogLevel int

const (
	// LogError logs only errors
	LogError LogLevel = iota
	// LogWarning logs errors and warnings
	LogWarning
	// LogInfo logs errors, warnings, and info
	LogInfo
	// LogDebug logs errors, warnings, info, and debug
	LogDebug
)

// LogFormatter formats log messages
type LogFormatter func(level LogLevel, format string, args ...interface{}) string

// DefaultLogFormatter provides default log formatting
func DefaultLogFormatter(level LogLevel, format string, args ...interface{}) string {
	levelStr := "INFO"
	switch level {
	case LogError:
		levelStr = "ERROR"
	case LogWarning:
		levelStr = "WARN"
	case LogInfo:
		levelStr = "INFO"
	case LogDebug:
		levelStr = "DEBUG"
	}

	return fmt.Sprintf("[%s] %s", levelStr, fmt.Sprintf(format, args...))
}

// LoggingObserver logs intersection and scheduler events. It implements
// ExtendedObserver and can be attached to intersections, the scheduler, or
// a controller.
type LoggingObserver struct {
	level     LogLevel
	prefix    string
	mutex     sync.RWMutex
	formatter LogFormatter
	writer    io.Writer
}

// NewLoggingObserver creates a logging observer writing to stdout
func NewLoggingObserver(level LogLevel, prefix string) *LoggingObserver {
	return &LoggingObserver{
		level:     level,
		prefix:    prefix,
		formatter: DefaultLogFormatter,
		writer:    os.Stdout,
	}
}

// SetFormatter sets the log formatter
func (o *LoggingObserver) SetFormatter(formatter LogFormatter) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.formatter = formatter
}

// SetWriter redirects log output to w
func (o *LoggingObserver) SetWriter(w io.Writer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.writer = w
}

// log writes a message at the specified level
func (o *LoggingObserver) log(level LogLevel, format string, args ...interface{}) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	if level > o.level {
		return
	}

	prefix := ""
	if o.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", o.prefix)
	}

	message := fmt.Sprintf(format, args...)
	if o.formatter != nil {
		message = o.formatter(level, format, args...)
	}

	fmt.Fprintf(o.writer, "%s%s\n", prefix, message)
}

// OnSignalChange logs a recorded signal change
func (o *LoggingObserver) OnSignalChange(intersectionID string, event ChangeEvent) {
	o.log(LogInfo, "Intersection %s: %s %s -> %s (triggered by %s)",
		intersectionID, event.Direction, event.From, event.To, event.TriggeredBy)
}

// OnModeChange logs a mode change
func (o *LoggingObserver) OnModeChange(intersectionID string, from, to Mode) {
	o.log(LogInfo, "Intersection %s: mode %s -> %s", intersectionID, from, to)
}

// OnPhaseChange logs a scheduler phase advance
func (o *LoggingObserver) OnPhaseChange(intersectionID string, from, to Phase) {
	o.log(LogDebug, "Intersection %s: advancing from %s to %s", intersectionID, from, to)
}

// OnTickError logs a per-intersection scheduler failure
func (o *LoggingObserver) OnTickError(intersectionID string, err error) {
	o.log(LogError, "Error processing intersection %s: %v", intersectionID, err)
}

// OnEmergencyStop logs a completed emergency stop
func (o *LoggingObserver) OnEmergencyStop(intersectionID string) {
	o.log(LogWarning, "Emergency stop executed at intersection %s", intersectionID)
}
