package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingTarget struct {
	calls atomic.Int32
	err   error
}

func (c *countingTarget) Reconcile(context.Context) (directory.RepairReport, error) {
	c.calls.Add(1)
	return directory.RepairReport{}, c.err
}

func TestReconcilerRunsImmediatelyAndOnTick(t *testing.T) {
	target := &countingTarget{}
	r := NewReconciler(target, logger.Nop(), 5*time.Millisecond)

	r.Start(context.Background())
	assert.GreaterOrEqual(t, target.calls.Load(), int32(1))

	assert.Eventually(t, func() bool { return target.calls.Load() >= 3 },
		time.Second, 5*time.Millisecond)

	r.Stop()
	r.Stop()
}

func TestReconcilerKeepsRunningAfterFailure(t *testing.T) {
	target := &countingTarget{err: errors.New("store unavailable")}
	r := NewReconciler(target, logger.Nop(), 5*time.Millisecond)

	r.Start(context.Background())
	assert.Eventually(t, func() bool { return target.calls.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	r.Stop()
}

func TestReconcilerStopsWithContext(t *testing.T) {
	target := &countingTarget{}
	r := NewReconciler(target, logger.Nop(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()
	r.Stop()

	assert.Equal(t, int32(1), target.calls.Load())
}
