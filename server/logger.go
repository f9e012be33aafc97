package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	jlog "github.com/luno/jettison/log"
)

// jsonLogger writes each jettison log as a single line of JSON.
type jsonLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *jsonLogger) Log(_ context.Context, entry jlog.Entry) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := json.Marshal(entry)
	if err != nil {
		_, _ = fmt.Fprintf(l.w, "jlogger: failed to marshal log: %v\n%s\n", err, entry.Message)
		return entry.Message
	}
	_, _ = l.w.Write(append(b, '\n'))
	return string(b)
}

func InitLogging(w io.Writer) {
	jlog.SetLogger(&jsonLogger{w: w})
}
