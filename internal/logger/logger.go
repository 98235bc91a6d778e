// Package logger keeps a bounded history of tagged log entries and echoes
// them in the "[TAG] message" form used throughout the emulator.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Entry is one log message. Consecutive identical messages are folded
// into a single entry with a repeat count.
type Entry struct {
	Time    time.Time
	Tag     string
	Message string
	Repeat  int
}

func (e Entry) String() string {
	s := fmt.Sprintf("[%s] %s", e.Tag, e.Message)
	if e.Repeat > 0 {
		s += fmt.Sprintf(" (x%d)", e.Repeat+1)
	}
	return s
}

// Logger is a bounded, concurrency-safe log.
type Logger struct {
	mu      sync.Mutex
	max     int
	entries []Entry
	echo    bool
	out     *log.Logger
}

// New creates a logger keeping up to size entries and echoing to w.
func New(size int, w io.Writer) *Logger {
	return &Logger{
		max:  size,
		echo: true,
		out:  log.New(w, "", log.LstdFlags),
	}
}

// Logf records a formatted message under tag.
func (l *Logger) Logf(tag, format string, args ...any) {
	l.log(tag, fmt.Sprintf(format, args...))
}

func (l *Logger) log(tag, message string) {
	tag = strings.ReplaceAll(tag, "\n", " ")
	message = strings.TrimRight(message, "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.entries); n > 0 {
		last := &l.entries[n-1]
		if last.Tag == tag && last.Message == message {
			last.Repeat++
			last.Time = time.Now()
			return
		}
		// a collapsed run is reported once it ends
		if last.Repeat > 0 && l.echo {
			l.out.Printf("[%s] last message repeated %d times", last.Tag, last.Repeat)
		}
	}

	l.entries = append(l.entries, Entry{Time: time.Now(), Tag: tag, Message: message})
	if len(l.entries) > l.max {
		l.entries = append(l.entries[:0], l.entries[len(l.entries)-l.max:]...)
	}
	if l.echo {
		l.out.Printf("[%s] %s", tag, message)
	}
}

// SetOutput changes where echoed entries are written.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.out.SetOutput(w)
	l.mu.Unlock()
}

// SetEcho turns echoing on or off. Entries are recorded either way.
func (l *Logger) SetEcho(echo bool) {
	l.mu.Lock()
	l.echo = echo
	l.mu.Unlock()
}

// Recent returns up to n of the newest entries, oldest first.
func (l *Logger) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]Entry(nil), l.entries[len(l.entries)-n:]...)
}

// Tail writes the n newest entries to w.
func (l *Logger) Tail(w io.Writer, n int) {
	for _, e := range l.Recent(n) {
		fmt.Fprintln(w, e)
	}
}

// Clear drops all recorded entries.
func (l *Logger) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()
}

const maxCentral = 256

var central = New(maxCentral, os.Stderr)

// Logf records a message in the central log.
func Logf(tag, format string, args ...any) {
	central.Logf(tag, format, args...)
}

// SetOutput redirects the central log's echo.
func SetOutput(w io.Writer) {
	central.SetOutput(w)
}

// SetEcho turns the central log's echo on or off.
func SetEcho(echo bool) {
	central.SetEcho(echo)
}

// Recent returns the newest entries of the central log.
func Recent(n int) []Entry {
	return central.Recent(n)
}

// Tail writes the newest entries of the central log to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}
