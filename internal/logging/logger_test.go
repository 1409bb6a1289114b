package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildConfig(t *testing.T) {
	prod := buildConfig("production")
	assert.Equal(t, zap.InfoLevel, prod.Level.Level())
	assert.Equal(t, "json", prod.Encoding)

	dev := buildConfig(" Development ")
	assert.Equal(t, zap.DebugLevel, dev.Level.Level())
	assert.Equal(t, "console", dev.Encoding)
	assert.Equal(t, []string{"stdout"}, dev.OutputPaths)
}

func TestRequestIDContext(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))
	assert.Equal(t, "req-42", NewLogger(ctx).RequestID())
	assert.Equal(t, "unknown", NewLogger(context.Background()).RequestID())
}

func TestLoggerCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	l := NewLogger(WithRequestID(context.Background(), "req-7"))
	l.LogInfof("submit", "accepted id=%s", "abc")
	l.LogError("submit.store", errors.New("boom"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "accepted id=abc", entries[0].Message)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "submit", entries[0].ContextMap()["operation"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stdout: invalid argument")))
	assert.False(t, isIgnorableSyncError(errors.New("disk write failed")))
}
