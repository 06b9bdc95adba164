// Package registry is the client-side source of truth for situation
// reports. It mirrors the backend into a local cache and is the only
// component allowed to mutate that cache, so the map and the
// moderation panel always read consistent state.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/session"
)

// Island centroid used when a report arrives with no coordinates and
// no device location.
const (
	FallbackLatitude  = 7.8731
	FallbackLongitude = 80.7718
)

var (
	ErrNotAuthenticated = errors.New("sign in required")
	ErrNotAdmin         = errors.New("admin role required")
	ErrNotFound         = errors.New("report not found")
	ErrValidation       = errors.New("report is incomplete")
)

// Backend is the slice of the API the registry drives. The HTTP
// client satisfies it; tests swap in a fake.
type Backend interface {
	SubmitReport(ctx context.Context, req model.CreateReportRequest) (model.Report, error)
	ApprovedReports(ctx context.Context) ([]model.Report, error)
	PendingReports(ctx context.Context) ([]model.Report, error)
	MyReports(ctx context.Context) ([]model.Report, error)
	ApproveReport(ctx context.Context, id int64) (model.Report, error)
	RejectReport(ctx context.Context, id int64) (model.Report, error)
}

// Draft is an unsubmitted report. Coordinates are pointers so a
// missing position is distinguishable from (0, 0).
type Draft struct {
	Name        string
	Description string
	Type        string
	Severity    string
	Latitude    *float64
	Longitude   *float64
}

type Registry struct {
	mu      sync.Mutex
	backend Backend
	session *session.Store
	reports map[int64]model.Report
}

func New(backend Backend, sessions *session.Store) *Registry {
	return &Registry{
		backend: backend,
		session: sessions,
		reports: make(map[int64]model.Report),
	}
}

// Sync replaces the cache with the backend's current view: the public
// approved set plus whatever pending set the viewer is entitled to.
func (r *Registry) Sync(ctx context.Context) error {
	approved, err := r.backend.ApprovedReports(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching approved reports")
	}

	var scoped []model.Report
	if viewer, ok := r.session.Current(); ok {
		if viewer.IsAdmin() {
			scoped, err = r.backend.PendingReports(ctx)
		} else {
			scoped, err = r.backend.MyReports(ctx)
		}
		if err != nil {
			return errors.Wrap(err, "fetching pending reports")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = make(map[int64]model.Report, len(approved)+len(scoped))
	for _, report := range approved {
		r.reports[report.ID] = report
	}
	for _, report := range scoped {
		r.reports[report.ID] = report
	}
	return nil
}

// Submit validates the draft, fills defaults and sends it. The created
// report enters the cache in pending state; nothing is rendered
// publicly until a moderator approves it. On failure the cache is
// untouched and the caller may retry with the same draft.
func (r *Registry) Submit(ctx context.Context, draft Draft) (model.Report, error) {
	req, err := draftToRequest(draft)
	if err != nil {
		return model.Report{}, err
	}

	viewer, ok := r.session.Current()
	if !ok {
		return model.Report{}, ErrNotAuthenticated
	}
	req.SubmittedBy = viewer.Username

	created, err := r.backend.SubmitReport(ctx, req)
	if err != nil {
		return model.Report{}, errors.Wrap(err, "submitting report")
	}

	r.mu.Lock()
	r.reports[created.ID] = created
	r.mu.Unlock()
	return created, nil
}

func draftToRequest(draft Draft) (model.CreateReportRequest, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return model.CreateReportRequest{}, errors.WithMessage(ErrValidation, "name is required")
	}
	if strings.TrimSpace(draft.Type) == "" {
		return model.CreateReportRequest{}, errors.WithMessage(ErrValidation, "type is required")
	}

	severity := draft.Severity
	if severity == "" {
		severity = model.SeverityLow
	}

	lat, lng := FallbackLatitude, FallbackLongitude
	if draft.Latitude != nil && draft.Longitude != nil {
		lat, lng = *draft.Latitude, *draft.Longitude
	}

	return model.CreateReportRequest{
		Name:        name,
		Description: draft.Description,
		Type:        draft.Type,
		Severity:    severity,
		Latitude:    lat,
		Longitude:   lng,
	}, nil
}

// ListApproved returns the approved reports newest first. It never
// mutates the cache.
func (r *Registry) ListApproved() []model.Report {
	return r.listByStatus(model.StatusApproved, nil)
}

// ListPending returns the pending reports the viewer may see: all of
// them for admins, only their own for members, none when signed out.
func (r *Registry) ListPending(viewer session.Identity) []model.Report {
	if viewer.Username == "" {
		return nil
	}
	if viewer.IsAdmin() {
		return r.listByStatus(model.StatusPending, nil)
	}
	return r.listByStatus(model.StatusPending, func(report model.Report) bool {
		return report.SubmittedBy == viewer.Username
	})
}

func (r *Registry) listByStatus(status string, keep func(model.Report) bool) []model.Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Report
	for _, report := range r.reports {
		if report.Status != status {
			continue
		}
		if keep != nil && !keep(report) {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Get returns the cached report by id.
func (r *Registry) Get(id int64) (model.Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	return report, ok
}

// Approve moves a pending report to approved. Approving an
// already-approved id is a no-op that returns the current state with
// every other field unchanged. An unknown or rejected id is NotFound.
func (r *Registry) Approve(ctx context.Context, id int64) (model.Report, error) {
	return r.transition(ctx, id, model.StatusApproved, r.backend.ApproveReport)
}

// Reject moves a pending report to rejected. Rejected reports keep
// their row for the submitter's own listing; they never reach the
// public map.
func (r *Registry) Reject(ctx context.Context, id int64) (model.Report, error) {
	return r.transition(ctx, id, model.StatusRejected, r.backend.RejectReport)
}

func (r *Registry) transition(ctx context.Context, id int64, target string, call func(context.Context, int64) (model.Report, error)) (model.Report, error) {
	viewer, ok := r.session.Current()
	if !ok {
		return model.Report{}, ErrNotAuthenticated
	}
	if !viewer.IsAdmin() {
		return model.Report{}, ErrNotAdmin
	}

	r.mu.Lock()
	cached, exists := r.reports[id]
	r.mu.Unlock()

	if exists && cached.Status == target {
		return cached, nil
	}
	if exists && cached.Status != model.StatusPending {
		return model.Report{}, errors.WithMessagef(ErrNotFound, "report %d is not pending", id)
	}

	updated, err := call(ctx, id)
	if err != nil {
		return model.Report{}, err
	}

	r.mu.Lock()
	r.reports[updated.ID] = updated
	r.mu.Unlock()
	return updated, nil
}
