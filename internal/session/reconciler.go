package session

import (
	"context"
	"log/slog"
	"time"
)

// Reconciler periodically checks that the overlays the controllers believe
// are shown still exist, and brings the button back when nothing is shown
// and the button was not hidden on request.
type Reconciler struct {
	interval time.Duration
	session  *Session
	logger   *slog.Logger
}

// NewReconciler creates a reconciler for s. A non-positive interval uses 5s.
func NewReconciler(s *Session, interval time.Duration, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: interval,
		session:  s,
		logger:   logger,
	}
}

// Run starts the reconciliation loop. Blocks until ctx is cancelled or the
// session ends.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-r.session.Done():
			r.logger.Info("reconciler stopped, session ended")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	// Never bring surfaces back while the session is tearing down.
	select {
	case <-r.session.Done():
		return
	default:
	}

	b := r.session.Button()
	l := r.session.LockScreen()

	if b.Active() && !b.Attached() {
		r.logger.Info("reconciler: button surface destroyed externally")
		b.Forget()
	}
	if l.Active() && !l.Attached() {
		r.logger.Info("reconciler: lock screen surface destroyed externally")
		l.Forget()
	}

	if !b.Active() && !l.Active() && !r.session.ButtonHidden() {
		r.logger.Info("reconciler: nothing shown, restoring button")
		if err := b.Activate(); err != nil {
			r.logger.Warn("reconciler: failed to restore button", "error", err)
		}
	}
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
