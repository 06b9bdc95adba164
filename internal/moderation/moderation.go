// Package moderation is the admin review queue. Decisions go through
// the registry and take effect only after the backend confirms them;
// there is no optimistic update, so a failed decision leaves both the
// queue and the map exactly as they were.
package moderation

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/mapsync"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/registry"
	"github.com/relieflk/floodmap/internal/session"
)

var ErrNotAdmin = errors.New("admin role required")

type Panel struct {
	mu       sync.Mutex
	registry *registry.Registry
	mapview  *mapsync.MapSync
	session  *session.Store
	pending  []model.Report
}

// NewPanel gates the queue on the admin role, the non-admin
// equivalent of being redirected away from the page.
func NewPanel(reg *registry.Registry, mapview *mapsync.MapSync, sessions *session.Store) (*Panel, error) {
	viewer, ok := sessions.Current()
	if !ok || !viewer.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return &Panel{
		registry: reg,
		mapview:  mapview,
		session:  sessions,
	}, nil
}

// Load fills the queue with every pending report, newest first.
func (p *Panel) Load(ctx context.Context) error {
	if err := p.registry.Sync(ctx); err != nil {
		return errors.Wrap(err, "loading pending queue")
	}
	viewer, _ := p.session.Current()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = p.registry.ListPending(viewer)
	return nil
}

// Pending returns the current queue snapshot.
func (p *Panel) Pending() []model.Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Report, len(p.pending))
	copy(out, p.pending)
	return out
}

// OnApprove confirms the report with the backend, drops it from the
// queue and redraws the map so the new marker appears.
func (p *Panel) OnApprove(ctx context.Context, id int64) error {
	if _, err := p.registry.Approve(ctx, id); err != nil {
		return err
	}
	return p.afterDecision(ctx, id)
}

// OnReject removes the report from the queue without it ever reaching
// the public map.
func (p *Panel) OnReject(ctx context.Context, id int64) error {
	if _, err := p.registry.Reject(ctx, id); err != nil {
		return err
	}
	return p.afterDecision(ctx, id)
}

func (p *Panel) afterDecision(ctx context.Context, id int64) error {
	p.mu.Lock()
	kept := p.pending[:0]
	for _, report := range p.pending {
		if report.ID != id {
			kept = append(kept, report)
		}
	}
	p.pending = kept
	p.mu.Unlock()

	if p.mapview == nil {
		return nil
	}
	return p.mapview.Refresh(ctx)
}
