// Package logging configures the process-wide slog logger. Early log
// output can be buffered until the TUI log pane exists and is then
// flushed into it; an optional log file receives everything in parallel.
package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// teeWriter is a thread-safe writer that can buffer output and later
// flush it to a live destination. It can also tee all output to a file.
type teeWriter struct {
	mu        sync.Mutex
	buffer    *bytes.Buffer
	live      io.Writer
	file      *os.File
	buffering bool
}

func (w *teeWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error

	if w.buffering {
		// bytes.Buffer.Write never fails.
		w.buffer.Write(p)
	} else if w.live != nil {
		if _, err := w.live.Write(p); err != nil {
			firstErr = err
		}
	}

	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return len(p), firstErr
}

var writer *teeWriter

// Init installs the default slog logger. With bufferOutput true, records
// are held back until SetOutput provides the live destination; otherwise
// they go to stderr right away. An empty logFilePath disables the file
// tee even when logToFile is set.
func Init(bufferOutput bool, levelStr, formatStr string, logToFile bool, logFilePath string) error {
	writer = &teeWriter{
		buffer:    &bytes.Buffer{},
		buffering: bufferOutput,
	}
	if !bufferOutput {
		writer.live = os.Stderr
	}

	if logToFile && logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writer.file = file
	}

	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(formatStr) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// SetOutput flushes everything buffered so far to newLive and switches to
// live logging. The TUI platform calls this once its log pane can accept
// writes.
func SetOutput(newLive io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.buffer.Len() > 0 {
		if _, err := newLive.Write(writer.buffer.Bytes()); err != nil {
			return err
		}
		writer.buffer.Reset()
	}

	writer.live = newLive
	writer.buffering = false
	return nil
}

// BufferOutput stops live logging and starts buffering again, e.g. while
// the TUI is being torn down.
func BufferOutput() {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	writer.live = nil
	writer.buffering = true
}

// Close flushes any remaining buffered records and closes the log file.
// With no file and no live destination the leftovers go to stderr so
// shutdown messages are never lost.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var firstErr error

	if writer.file != nil {
		if writer.buffer.Len() > 0 {
			if _, err := writer.file.Write(writer.buffer.Bytes()); err != nil {
				firstErr = err
			}
		}
		if err := writer.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	} else if writer.live == nil {
		if writer.buffer.Len() > 0 {
			if _, err := os.Stderr.Write(writer.buffer.Bytes()); err != nil {
				firstErr = err
			}
		}
	}

	writer.buffer.Reset()
	return firstErr
}
