package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rivo/tview"
)

type Level int

const (
	Info Level = iota
	Warn
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

type entry struct {
	timestamp time.Time
	tag       string
	level     Level
	message   string
}

// Logger is a tagged logger. All loggers created with NewLogger share one
// file writer goroutine; in dev mode entries are mirrored to the tview
// debug console.
type Logger struct {
	tag string
}

var (
	shared struct {
		view    *tview.TextView
		dev     bool
		logFile *os.File
		entries chan entry
		done    chan struct{}
	}
	once sync.Once
)

// InitLogger sets up the shared sinks. Must be called before NewLogger.
// view may be nil when no debug console is attached.
func InitLogger(dev bool, logPath string, view *tview.TextView) {
	once.Do(func() {
		shared.view = view
		shared.dev = dev
		shared.entries = make(chan entry, 100)
		shared.done = make(chan struct{})

		if logPath != "" {
			fileName := fmt.Sprintf("qwenchat_%s.log", time.Now().Format("20060102_150405"))
			file, err := os.OpenFile(filepath.Join(logPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				log.Fatalf("Failed to open log file: %s", err)
			}
			shared.logFile = file
		}

		go drain()
	})
}

func drain() {
	defer close(shared.done)
	for e := range shared.entries {
		if shared.logFile == nil {
			continue
		}
		line := fmt.Sprintf("%s [%s] %s: %s\n",
			e.timestamp.Format("2006-01-02 15:04:05"), e.tag, e.level, e.message)
		shared.logFile.WriteString(line)
	}
}

func NewLogger(tag string) *Logger {
	return &Logger{tag: tag}
}

func (l *Logger) log(level Level, v ...interface{}) {
	message := fmt.Sprint(v...)

	if shared.dev {
		if shared.view != nil {
			color := "green"
			switch level {
			case Warn:
				color = "yellow"
			case Error, Fatal:
				color = "red"
			}
			fmt.Fprintf(shared.view, "[%s]%s (%s): %s[-]\n", color, level, l.tag, message)
		} else if level == Fatal {
			log.Fatal(v...)
		} else {
			log.Println(v...)
		}
	}

	if shared.logFile != nil {
		shared.entries <- entry{
			timestamp: time.Now(),
			tag:       l.tag,
			level:     level,
			message:   message,
		}
	}
}

func (l *Logger) Info(v ...interface{})  { l.log(Info, v...) }
func (l *Logger) Warn(v ...interface{})  { l.log(Warn, v...) }
func (l *Logger) Error(v ...interface{}) { l.log(Error, v...) }

func (l *Logger) Fatal(v ...interface{}) {
	l.log(Fatal, v...)
	Close()
	os.Exit(1)
}

// Close flushes queued entries and closes the log file.
func Close() {
	if shared.entries == nil {
		return
	}
	close(shared.entries)
	<-shared.done
	if shared.logFile != nil {
		shared.logFile.Close()
	}
	// Fatal may run after an explicit Close; make the second call a no-op
	// instead of closing a closed channel.
	shared.entries = nil
	shared.logFile = nil
}
