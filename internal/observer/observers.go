package observer

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ConsoleObserver prints notifications on the shared console.
type ConsoleObserver struct {
	console *Console
}

func NewConsoleObserver(c *Console) *ConsoleObserver {
	return &ConsoleObserver{console: c}
}

func (o *ConsoleObserver) Notify(message string) {
	o.console.Println("[Console Log]: " + message)
}

// FileObserver appends one line per notification to a file. The file is
// truncated when the observer is created and stays open until Close.
type FileObserver struct {
	mu   sync.Mutex
	f    *os.File
	path string
	log  *zap.Logger
}

func NewFileObserver(path string, log *zap.Logger) (*FileObserver, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create event log %s: %w", path, err)
	}
	return &FileObserver{f: f, path: path, log: log}, nil
}

func (o *FileObserver) Path() string { return o.path }

// Notify appends message. Notifications after Close are dropped.
func (o *FileObserver) Notify(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return
	}
	if _, err := fmt.Fprintln(o.f, message); err != nil {
		o.log.Warn("event log write failed", zap.String("path", o.path), zap.Error(err))
	}
}

// Close closes the log file. It is safe to call more than once.
func (o *FileObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return nil
	}
	err := o.f.Close()
	o.f = nil
	return err
}

// LogObserver forwards notifications to the structured log.
type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) Notify(message string) {
	o.log.Info("notification", zap.String("message", message))
}
