package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
)

// Reconcilable is implemented by *directory.Service.
type Reconcilable interface {
	Reconcile(ctx context.Context) (directory.RepairReport, error)
}

// Reconciler periodically rebuilds the derived index lists.
type Reconciler struct {
	target   Reconcilable
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewReconciler creates a reconciler running every interval.
func NewReconciler(target Reconcilable, log logger.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		target:   target,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval until Stop is
// called or ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	if _, err := r.target.Reconcile(ctx); err != nil {
		r.logger.Warn("initial index reconciliation failed", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer close(r.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := r.target.Reconcile(ctx); err != nil {
					r.logger.Error("index reconciliation failed", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight pass to finish. Safe to
// call more than once.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}
