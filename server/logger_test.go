package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/luno/jettison/j"
	jlog "github.com/luno/jettison/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerWritesLines(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := &jsonLogger{w: &buf}

	out := l.Log(ctx, jlog.Entry{Message: "loaded distribution"})
	l.Log(ctx, jlog.Entry{Message: "server listening"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, out, lines[0])
	assert.True(t, json.Valid([]byte(lines[0])))
	assert.Contains(t, lines[0], "loaded distribution")
	assert.Contains(t, lines[1], "server listening")
}

func TestJSONLoggerAsGlobal(t *testing.T) {
	var buf bytes.Buffer
	jlog.SetLoggerForTesting(t, &jsonLogger{w: &buf})

	jlog.Info(context.Background(), "tallies found", j.KV("distributions", 2))

	var e jlog.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "tallies found", e.Message)
	assert.Equal(t, jlog.LevelInfo, e.Level)
	require.Len(t, e.Parameters, 1)
	assert.Equal(t, "distributions", e.Parameters[0].Key)
	assert.Equal(t, "2", e.Parameters[0].Value)
}
