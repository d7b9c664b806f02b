// Package notify is the caller-visible channel for non-fatal problems and
// confirmations raised by the document store.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Level mirrors the toast styles the UI renders.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to Notifier.
type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

// Discard drops every message.
var Discard Notifier = Func(func(Level, string) {})

// Multi fans a message out to every notifier.
func Multi(notifiers ...Notifier) Notifier {
	return Func(func(level Level, message string) {
		for _, n := range notifiers {
			if n != nil {
				n.Notify(level, message)
			}
		}
	})
}

// Logger writes notifications to a slog.Logger.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(level Level, message string) {
	lvl := slog.LevelInfo
	switch level {
	case LevelWarning:
		lvl = slog.LevelWarn
	case LevelError:
		lvl = slog.LevelError
	}
	l.logger.Log(context.Background(), lvl, message, "toast", string(level))
}

// Message is one recorded notification.
type Message struct {
	Level   Level
	Message string
}

// Recorder keeps every notification in memory. Handy for tests and for
// surfacing the last problem in an API response.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Level: level, Message: message})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Reset clears recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
