package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		" WARN ":  WarnLevel,
		"error":   ErrorLevel,
		"info":    InfoLevel,
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Output: &buf})

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "doc", "2024-01-01")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "2024-01-01")
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: DebugLevel, Output: &buf, JSON: true})
	l.With("author", "ana").Debug("clause", "kind", "dependent")
	assert.Contains(t, buf.String(), `"author":"ana"`)
	assert.Contains(t, buf.String(), `"kind":"dependent"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Output: &buf})
	ctx := ContextWithLogger(context.Background(), l)

	FromContext(ctx).Info("from context")
	assert.Contains(t, buf.String(), "from context")

	require.NotNil(t, FromContext(context.Background()))
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	prev := GetDefault()
	t.Cleanup(func() { SetDefault(prev) })

	l := Discard()
	SetDefault(l)
	assert.Same(t, l, GetDefault())
	SetDefault(nil)
	assert.Same(t, l, GetDefault())

	require.NotNil(t, NewLogger(nil))
	assert.Equal(t, InfoLevel, DefaultConfig().Level)
}
