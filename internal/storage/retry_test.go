package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryConnectEventuallySucceeds(t *testing.T) {
	calls := 0
	err := RetryConnect(context.Background(), "test", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryConnectGivesUp(t *testing.T) {
	old := ConnectTimeout
	ConnectTimeout = 300 * time.Millisecond
	t.Cleanup(func() { ConnectTimeout = old })

	boom := errors.New("refused")
	err := RetryConnect(context.Background(), "test", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRetryConnectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryConnect(ctx, "test", func(context.Context) error { return errors.New("refused") })
	assert.Error(t, err)
}
