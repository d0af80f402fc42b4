package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

const (
	DefaultRefreshInterval = 5 * time.Minute
	refreshTimeout         = 30 * time.Second
)

// Source reads previously seen names from persistence.
type Source interface {
	StudentNames(ctx context.Context) ([]string, error)
	ReporterContacts(ctx context.Context) ([]incident.Contact, error)
}

// Registry holds the current snapshot of known entities. Readers never
// block; Refresh builds a complete snapshot and swaps it in.
type Registry struct {
	source Source
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex // serializes refreshes
	snap atomic.Pointer[Snapshot]
}

// New creates a registry that starts out empty.
func New(source Source, logger *slog.Logger) *Registry {
	r := &Registry{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	r.snap.Store(NewSnapshot(nil, nil, time.Time{}))
	return r
}

// Refresh reloads the snapshot from the source. On failure the previous
// snapshot is kept and the error is logged and returned.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.source.StudentNames(ctx)
	if err != nil {
		r.logger.Warn("registry refresh failed, keeping previous snapshot", "stage", "students", "error", err)
		return fmt.Errorf("load students: %w", err)
	}
	contacts, err := r.source.ReporterContacts(ctx)
	if err != nil {
		r.logger.Warn("registry refresh failed, keeping previous snapshot", "stage", "reporters", "error", err)
		return fmt.Errorf("load reporters: %w", err)
	}

	next := NewSnapshot(students, contacts, r.now())
	r.snap.Store(next)

	ns, nr := next.Len()
	r.logger.Debug("registry refreshed", "students", ns, "reporters", nr)
	return nil
}

// Snapshot returns the current snapshot. Never nil.
func (r *Registry) Snapshot() *Snapshot { return r.snap.Load() }

func (r *Registry) Students() []string  { return r.Snapshot().Students() }
func (r *Registry) Reporters() []string { return r.Snapshot().Reporters() }

func (r *Registry) EmailFor(name string) (string, bool) {
	return r.Snapshot().EmailFor(name)
}

// Start refreshes once immediately, then every period on sched until ctx
// is done or the returned stop function is called.
func (r *Registry) Start(ctx context.Context, sched Scheduler, period time.Duration) (stop func(), err error) {
	if period <= 0 {
		period = DefaultRefreshInterval
	}

	_ = r.refreshWithTimeout(ctx)

	stop, err = sched.Every(period, func() {
		if ctx.Err() != nil {
			return
		}
		_ = r.refreshWithTimeout(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	r.logger.Info("registry refresh scheduled", "period", period.String())
	return stop, nil
}

func (r *Registry) refreshWithTimeout(ctx context.Context) error {
	rctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	return r.Refresh(rctx)
}
