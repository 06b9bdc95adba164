// Package feed is the client view of the official alerts feed.
package feed

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/session"
)

var (
	ErrNotAdmin   = errors.New("admin role required")
	ErrValidation = errors.New("alert is incomplete")
)

// Backend is the alert surface of the API.
type Backend interface {
	Alerts(ctx context.Context) ([]model.Alert, error)
	CreateAlert(ctx context.Context, req model.CreateAlertRequest) (model.Alert, error)
	DeleteAlert(ctx context.Context, id int64) error
}

type Feed struct {
	backend Backend
	session *session.Store
}

func New(backend Backend, sessions *session.Store) *Feed {
	return &Feed{backend: backend, session: sessions}
}

// List returns the feed newest first. Reading requires no session.
func (f *Feed) List(ctx context.Context) ([]model.Alert, error) {
	alerts, err := f.backend.Alerts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching alerts")
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})
	return alerts, nil
}

// Publish posts a new alert. Admin only.
func (f *Feed) Publish(ctx context.Context, req model.CreateAlertRequest) (model.Alert, error) {
	if err := f.requireAdmin(); err != nil {
		return model.Alert{}, err
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return model.Alert{}, errors.WithMessage(ErrValidation, "title and content are required")
	}
	if req.Severity == "" {
		req.Severity = model.AlertAdvisory
	}
	return f.backend.CreateAlert(ctx, req)
}

// Retract deletes an alert from the feed. Admin only.
func (f *Feed) Retract(ctx context.Context, id int64) error {
	if err := f.requireAdmin(); err != nil {
		return err
	}
	return f.backend.DeleteAlert(ctx, id)
}

func (f *Feed) requireAdmin() error {
	viewer, ok := f.session.Current()
	if !ok || !viewer.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
