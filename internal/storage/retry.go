package storage

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ConnectTimeout bounds how long RetryConnect keeps trying.
var ConnectTimeout = 20 * time.Second

// RetryConnect calls fn with exponential backoff until it succeeds,
// ctx is done or ConnectTimeout has elapsed.
func RetryConnect(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.Multiplier = 2.0
	exp.MaxInterval = 5 * time.Second
	exp.RandomizationFactor = 0.5
	exp.Reset()

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		if err := fn(ctx); err != nil {
			zap.S().Warnw("backend not ready", "backend", name, "attempt", attempt, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(ConnectTimeout),
	)
	return err
}
