package moderation

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/mapsync"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/registry"
	"github.com/relieflk/floodmap/internal/session"
	"github.com/relieflk/floodmap/util/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu             sync.Mutex
	reports        map[int64]model.Report
	failTransition error
}

func newFakeBackend(reports ...model.Report) *fakeBackend {
	f := &fakeBackend{reports: make(map[int64]model.Report)}
	for _, report := range reports {
		f.reports[report.ID] = report
	}
	return f
}

func (f *fakeBackend) SubmitReport(context.Context, model.CreateReportRequest) (model.Report, error) {
	return model.Report{}, errors.New("not used")
}

func (f *fakeBackend) ApprovedReports(context.Context) ([]model.Report, error) {
	return f.byStatus(model.StatusApproved), nil
}

func (f *fakeBackend) PendingReports(context.Context) ([]model.Report, error) {
	return f.byStatus(model.StatusPending), nil
}

func (f *fakeBackend) MyReports(context.Context) ([]model.Report, error) {
	return nil, nil
}

func (f *fakeBackend) byStatus(status string) []model.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Report
	for _, report := range f.reports {
		if report.Status == status {
			out = append(out, report)
		}
	}
	return out
}

func (f *fakeBackend) ApproveReport(_ context.Context, id int64) (model.Report, error) {
	return f.transition(id, model.StatusApproved)
}

func (f *fakeBackend) RejectReport(_ context.Context, id int64) (model.Report, error) {
	return f.transition(id, model.StatusRejected)
}

func (f *fakeBackend) transition(id int64, status string) (model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTransition != nil {
		return model.Report{}, f.failTransition
	}
	report, ok := f.reports[id]
	if !ok {
		return model.Report{}, errors.WithMessagef(registry.ErrNotFound, "report %d", id)
	}
	report.Status = status
	f.reports[id] = report
	return report, nil
}

type noopRenderer struct{}

func (noopRenderer) Clear()                       {}
func (noopRenderer) DrawPin(mapsync.Pin)          {}
func (noopRenderer) DrawProvisional(_, _ float64) {}
func (noopRenderer) ClearProvisional()            {}

func adminSession(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.New(nil)
	require.NoError(t, err)
	require.NoError(t, store.SignIn(session.Identity{Username: "admin", Role: values.RoleAdmin}))
	return store
}

func newPanel(t *testing.T, backend *fakeBackend) (*Panel, *registry.Registry) {
	t.Helper()
	sessions := adminSession(t)
	reg := registry.New(backend, sessions)
	mapview := mapsync.New(reg, sessions, noopRenderer{})
	panel, err := NewPanel(reg, mapview, sessions)
	require.NoError(t, err)
	return panel, reg
}

func TestNewPanelRequiresAdmin(t *testing.T) {
	sessions, err := session.New(nil)
	require.NoError(t, err)

	_, err = NewPanel(nil, nil, sessions)
	assert.ErrorIs(t, err, ErrNotAdmin, "signed-out viewers are turned away")

	require.NoError(t, sessions.SignIn(session.Identity{Username: "nimal", Role: values.RoleMember}))
	_, err = NewPanel(nil, nil, sessions)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestLoadFillsQueueNewestFirst(t *testing.T) {
	backend := newFakeBackend(
		model.Report{ID: 1, Name: "old", Status: model.StatusPending},
		model.Report{ID: 2, Name: "new", Status: model.StatusPending},
		model.Report{ID: 3, Name: "done", Status: model.StatusApproved},
	)
	panel, _ := newPanel(t, backend)

	require.NoError(t, panel.Load(context.Background()))

	queue := panel.Pending()
	require.Len(t, queue, 2)
	assert.Equal(t, int64(2), queue[0].ID)
	assert.Equal(t, int64(1), queue[1].ID)
}

func TestOnApproveRemovesFromQueueAndPublishes(t *testing.T) {
	backend := newFakeBackend(
		model.Report{ID: 1, Name: "a", Status: model.StatusPending},
		model.Report{ID: 2, Name: "b", Status: model.StatusPending},
	)
	panel, reg := newPanel(t, backend)
	require.NoError(t, panel.Load(context.Background()))

	require.NoError(t, panel.OnApprove(context.Background(), 1))

	queue := panel.Pending()
	require.Len(t, queue, 1)
	assert.Equal(t, int64(2), queue[0].ID)

	approved := reg.ListApproved()
	require.Len(t, approved, 1)
	assert.Equal(t, int64(1), approved[0].ID)
}

func TestOnRejectRemovesFromQueueWithoutPublishing(t *testing.T) {
	backend := newFakeBackend(
		model.Report{ID: 1, Name: "a", Status: model.StatusPending},
	)
	panel, reg := newPanel(t, backend)
	require.NoError(t, panel.Load(context.Background()))

	require.NoError(t, panel.OnReject(context.Background(), 1))

	assert.Empty(t, panel.Pending())
	assert.Empty(t, reg.ListApproved())
}

func TestFailedDecisionLeavesQueueUnchanged(t *testing.T) {
	backend := newFakeBackend(
		model.Report{ID: 1, Name: "a", Status: model.StatusPending},
	)
	panel, reg := newPanel(t, backend)
	require.NoError(t, panel.Load(context.Background()))

	backend.failTransition = errors.New("connection reset")
	err := panel.OnApprove(context.Background(), 1)
	require.Error(t, err)

	require.Len(t, panel.Pending(), 1, "queue keeps the report after a failed decision")
	assert.Empty(t, reg.ListApproved())
}

func TestOnApproveUnknownID(t *testing.T) {
	backend := newFakeBackend()
	panel, _ := newPanel(t, backend)
	require.NoError(t, panel.Load(context.Background()))

	err := panel.OnApprove(context.Background(), 42)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}
