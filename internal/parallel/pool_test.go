package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	//** Arrange
	pool := NewWorkerPool(3)
	var done atomic.Int64

	//** Act
	for range 50 {
		require.NoError(t, pool.Submit(context.Background(), func() { done.Add(1) }))
	}
	pool.Shutdown()

	//** Assert
	assert.Equal(t, int64(50), done.Load())
}

func TestSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Shutdown()
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})

	assert.ErrorIs(t, err, ErrPoolShutdown)
}

func TestSubmitWithCancelledContext(t *testing.T) {
	//** Arrange
	pool := NewWorkerPool(1)
	defer pool.Shutdown()
	block, started := make(chan struct{}), make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func() { close(started); <-block }))
	<-started
	for range 2 { // fill the queue
		require.NoError(t, pool.Submit(context.Background(), func() {}))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	//** Act
	err := pool.Submit(ctx, func() {})
	close(block)

	//** Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultSize(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Shutdown()
	assert.Positive(t, pool.Size())
}
