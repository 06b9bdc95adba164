package mapsync

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/registry"
	"github.com/relieflk/floodmap/internal/session"
	"github.com/relieflk/floodmap/util/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves fixed report sets, scoped the way the server
// scopes them.
type fakeBackend struct {
	mu      sync.Mutex
	reports []model.Report
	viewer  string
	admin   bool
}

func (f *fakeBackend) SubmitReport(_ context.Context, req model.CreateReportRequest) (model.Report, error) {
	return model.Report{}, errors.New("not used")
}

func (f *fakeBackend) ApprovedReports(context.Context) ([]model.Report, error) {
	return f.filter(func(r model.Report) bool { return r.Status == model.StatusApproved }), nil
}

func (f *fakeBackend) PendingReports(context.Context) ([]model.Report, error) {
	return f.filter(func(r model.Report) bool {
		return r.Status == model.StatusPending && (f.admin || r.SubmittedBy == f.viewer)
	}), nil
}

func (f *fakeBackend) MyReports(context.Context) ([]model.Report, error) {
	return f.filter(func(r model.Report) bool { return r.SubmittedBy == f.viewer }), nil
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
	for i, report := range f.reports {
		if report.ID == id {
			f.reports[i].Status = status
			return f.reports[i], nil
		}
	}
	return model.Report{}, errors.New("report not found")
}

func (f *fakeBackend) filter(keep func(model.Report) bool) []model.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Report
	for _, report := range f.reports {
		if keep(report) {
			out = append(out, report)
		}
	}
	return out
}

// recordingRenderer captures the draw sequence.
type recordingRenderer struct {
	mu           sync.Mutex
	clears       int
	pins         []Pin
	provisionals [][2]float64
	provClears   int
}

func (r *recordingRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.pins = nil
}

func (r *recordingRenderer) DrawPin(pin Pin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins = append(r.pins, pin)
}

func (r *recordingRenderer) DrawProvisional(lat, lng float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.provisionals = append(r.provisionals, [2]float64{lat, lng})
}

func (r *recordingRenderer) ClearProvisional() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.provClears++
	r.provisionals = nil
}

func (r *recordingRenderer) drawn() []Pin {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pin, len(r.pins))
	copy(out, r.pins)
	return out
}

func memberSession(t *testing.T, username string) *session.Store {
	t.Helper()
	store, err := session.New(nil)
	require.NoError(t, err)
	require.NoError(t, store.SignIn(session.Identity{Username: username, Role: values.RoleMember}))
	return store
}

func newMap(t *testing.T, backend *fakeBackend, sessions *session.Store) (*MapSync, *recordingRenderer) {
	t.Helper()
	renderer := &recordingRenderer{}
	reg := registry.New(backend, sessions)
	return New(reg, sessions, renderer), renderer
}

func TestRefreshDrawsApprovedAndOwnPending(t *testing.T) {
	backend := &fakeBackend{
		viewer: "nimal",
		reports: []model.Report{
			{ID: 1, Type: model.TypeFlood, Status: model.StatusApproved, Latitude: 6.93, Longitude: 79.85, SubmittedBy: "kamala"},
			{ID: 2, Type: model.TypeSafeZone, Status: model.StatusApproved, Latitude: 6.90, Longitude: 79.90, SubmittedBy: "nimal"},
			{ID: 3, Type: model.TypeFlood, Status: model.StatusPending, SubmittedBy: "nimal"},
			{ID: 4, Type: model.TypeFlood, Status: model.StatusPending, SubmittedBy: "kamala"},
		},
	}
	m, _ := newMap(t, backend, memberSession(t, "nimal"))

	require.NoError(t, m.Refresh(context.Background()))

	pins := m.Pins()
	assert.Len(t, pins, 3, "two approved plus own pending")
	assert.NotContains(t, pins, int64(4), "other users' pending reports are private")

	assert.Equal(t, opacityApproved, pins[1].Opacity)
	assert.Empty(t, pins[1].Badge)
	assert.Equal(t, opacityPending, pins[3].Opacity)
	assert.Equal(t, badgePending, pins[3].Badge)
}

func TestRefreshIsClearAndRedraw(t *testing.T) {
	backend := &fakeBackend{
		viewer: "nimal",
		reports: []model.Report{
			{ID: 1, Type: model.TypeFlood, Status: model.StatusApproved},
		},
	}
	m, renderer := newMap(t, backend, memberSession(t, "nimal"))

	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.Refresh(context.Background()))

	assert.Equal(t, 2, renderer.clears, "every refresh clears before drawing")
	assert.Len(t, renderer.drawn(), 1, "no duplicate pins accumulate across refreshes")
	assert.Len(t, m.Pins(), 1)
}

func TestRefreshUsesDefaultIconForUnknownType(t *testing.T) {
	backend := &fakeBackend{
		reports: []model.Report{
			{ID: 1, Type: "volcano", Status: model.StatusApproved},
		},
	}
	store, err := session.New(nil)
	require.NoError(t, err)
	m, _ := newMap(t, backend, store)

	require.NoError(t, m.Refresh(context.Background()))

	pins := m.Pins()
	require.Contains(t, pins, int64(1))
	assert.Equal(t, iconDefault, pins[1].Icon)
}

func TestSelectPointKeepsSingleProvisionalPin(t *testing.T) {
	backend := &fakeBackend{}
	store, err := session.New(nil)
	require.NoError(t, err)
	m, renderer := newMap(t, backend, store)

	m.SelectPoint(6.9, 79.8)
	m.SelectPoint(7.1, 80.0)

	renderer.mu.Lock()
	provisionals := append([][2]float64(nil), renderer.provisionals...)
	renderer.mu.Unlock()
	require.Len(t, provisionals, 1, "selecting again moves the pin instead of adding one")
	assert.Equal(t, [2]float64{7.1, 80.0}, provisionals[0])

	lat, lng, ok := m.Provisional()
	require.True(t, ok)
	assert.Equal(t, 7.1, lat)
	assert.Equal(t, 80.0, lng)

	m.ClearProvisional()
	_, _, ok = m.Provisional()
	assert.False(t, ok)
}

func TestProvisionalSurvivesRefresh(t *testing.T) {
	backend := &fakeBackend{}
	store, err := session.New(nil)
	require.NoError(t, err)
	m, renderer := newMap(t, backend, store)

	m.SelectPoint(6.9, 79.8)
	require.NoError(t, m.Refresh(context.Background()))

	renderer.mu.Lock()
	provisionals := append([][2]float64(nil), renderer.provisionals...)
	renderer.mu.Unlock()
	require.Len(t, provisionals, 1)
	assert.Equal(t, [2]float64{6.9, 79.8}, provisionals[0])
}
