package feed

import (
	"context"
	"testing"
	"time"

	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/session"
	"github.com/relieflk/floodmap/util/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	alerts  []model.Alert
	deleted []int64
}

func (f *fakeBackend) Alerts(context.Context) ([]model.Alert, error) {
	return f.alerts, nil
}

func (f *fakeBackend) CreateAlert(_ context.Context, req model.CreateAlertRequest) (model.Alert, error) {
	alert := model.Alert{
		ID:        int64(len(f.alerts) + 1),
		Title:     req.Title,
		Content:   req.Content,
		Severity:  req.Severity,
		Source:    req.Source,
		Timestamp: time.Now(),
	}
	f.alerts = append(f.alerts, alert)
	return alert, nil
}

func (f *fakeBackend) DeleteAlert(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func sessionFor(t *testing.T, username, role string) *session.Store {
	t.Helper()
	store, err := session.New(nil)
	require.NoError(t, err)
	if username != "" {
		require.NoError(t, store.SignIn(session.Identity{Username: username, Role: role}))
	}
	return store
}

func TestListIsNewestFirst(t *testing.T) {
	now := time.Now()
	backend := &fakeBackend{alerts: []model.Alert{
		{ID: 1, Title: "older", Timestamp: now.Add(-time.Hour)},
		{ID: 3, Title: "newest", Timestamp: now},
		{ID: 2, Title: "middle", Timestamp: now.Add(-30 * time.Minute)},
	}}
	f := New(backend, sessionFor(t, "", ""))

	alerts, err := f.List(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "newest", alerts[0].Title)
	assert.Equal(t, "middle", alerts[1].Title)
	assert.Equal(t, "older", alerts[2].Title)
}

func TestPublishRequiresAdmin(t *testing.T) {
	backend := &fakeBackend{}

	member := New(backend, sessionFor(t, "nimal", values.RoleMember))
	_, err := member.Publish(context.Background(), model.CreateAlertRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	signedOut := New(backend, sessionFor(t, "", ""))
	_, err = signedOut.Publish(context.Background(), model.CreateAlertRequest{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, ErrNotAdmin)

	assert.Empty(t, backend.alerts)
}

func TestPublishValidatesAndDefaults(t *testing.T) {
	backend := &fakeBackend{}
	f := New(backend, sessionFor(t, "admin", values.RoleAdmin))

	_, err := f.Publish(context.Background(), model.CreateAlertRequest{Title: " ", Content: "c"})
	assert.ErrorIs(t, err, ErrValidation)

	alert, err := f.Publish(context.Background(), model.CreateAlertRequest{
		Title:   "River rising",
		Content: "Kelani above danger level at Nagalagam Street",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AlertAdvisory, alert.Severity, "severity defaults to advisory")
}

func TestRetractRequiresAdmin(t *testing.T) {
	backend := &fakeBackend{}

	member := New(backend, sessionFor(t, "nimal", values.RoleMember))
	assert.ErrorIs(t, member.Retract(context.Background(), 1), ErrNotAdmin)

	admin := New(backend, sessionFor(t, "admin", values.RoleAdmin))
	require.NoError(t, admin.Retract(context.Background(), 1))
	assert.Equal(t, []int64{1}, backend.deleted)
}
