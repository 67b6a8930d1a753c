package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingWorker ждет Stop и возвращает err
type blockingWorker struct {
	*BaseWorker
	err     error
	started chan struct{}
}

func newBlockingWorker(name string, err error) *blockingWorker {
	return &blockingWorker{
		BaseWorker: NewBaseWorker(name, "group", zap.NewNop()),
		err:        err,
		started:    make(chan struct{}),
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	select {
	case <-w.StopChan():
	case <-ctx.Done():
		return ctx.Err()
	}
	return w.err
}

// stuckWorker игнорирует Stop
type stuckWorker struct {
	*BaseWorker
	release chan struct{}
}

func (w *stuckWorker) Start(ctx context.Context) error {
	<-w.release
	return nil
}

func TestBaseWorker_StopIsIdempotent(t *testing.T) {
	w := NewBaseWorker("cities-import", "cities-importers", zap.NewNop())

	assert.Equal(t, "cities-import", w.Name())
	assert.Equal(t, "cities-importers", w.ConsumerGroup())
	assert.False(t, w.IsStopped())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())

	select {
	case <-w.StopChan():
	default:
		t.Fatal("stop channel is not closed")
	}
}

func TestWorkerManager_StartWithoutWorkers(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoWorkers)
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	a := newBlockingWorker("a", nil)
	b := newBlockingWorker("b", nil)
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	<-a.started
	<-b.started

	assert.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_StopReturnsWorkerErrors(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	failing := newBlockingWorker("failing", errors.New("redis connection lost"))
	m.Register(failing)
	m.Register(newBlockingWorker("ok", nil))

	require.NoError(t, m.Start(context.Background()))
	<-failing.started

	err := m.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: redis connection lost")
}

func TestWorkerManager_IgnoresCancellation(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	w := newBlockingWorker("a", nil)
	m.Register(w)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx))
	<-w.started
	cancel()

	assert.NoError(t, m.Stop())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	m.SetShutdownTimeout(20 * time.Millisecond)
	w := &stuckWorker{BaseWorker: NewBaseWorker("stuck", "group", zap.NewNop()), release: make(chan struct{})}
	defer close(w.release)
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))

	err := m.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
