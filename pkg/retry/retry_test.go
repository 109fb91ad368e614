package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(),
		Options{MaxAttempts: 3, BaseDelay: time.Millisecond},
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("transient")
			}
			return 42, nil
		})

	require.NoError(t, err)
	require.Equal(t, 42, result)
	require.Equal(t, 3, calls)
}

func TestDoReturnsLastError(t *testing.T) {
	wantErr := errors.New("still failing")
	calls := 0
	_, err := Do(context.Background(),
		Options{MaxAttempts: 4, BaseDelay: time.Millisecond},
		func(context.Context) (struct{}, error) {
			calls++
			return struct{}{}, wantErr
		})

	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 4, calls)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx,
		Options{MaxAttempts: 10, BaseDelay: time.Minute},
		func(context.Context) (struct{}, error) {
			calls++
			return struct{}{}, errors.New("transient")
		})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
