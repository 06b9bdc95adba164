// Package mapsync keeps a map rendering in step with the report
// registry. Rendering is clear-and-redraw: every refresh rebuilds the
// full pin set from the registry instead of patching deltas, which
// keeps the map equal to the cache by construction.
package mapsync

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/internal/registry"
	"github.com/relieflk/floodmap/internal/session"
)

// Pin is one rendered marker.
type Pin struct {
	ReportID int64
	Lat      float64
	Lng      float64
	Icon     string
	Opacity  float64
	Badge    string
}

const (
	opacityApproved = 1.0
	opacityPending  = 0.5

	badgePending = "pending"
)

// iconForType maps report types to marker icons. Unknown types get
// the default icon rather than failing.
var iconForType = map[string]string{
	model.TypeFlood:        "flood",
	model.TypeLandslide:    "landslide",
	model.TypeRoadBlock:    "road-block",
	model.TypeSafeZone:     "safe-zone",
	model.TypeRescueNeeded: "rescue",
	model.TypeMedical:      "medical",
}

const iconDefault = "marker"

// Renderer is the drawing surface. The web frontend implements it over
// the map widget; tests record calls.
type Renderer interface {
	Clear()
	DrawPin(Pin)
	DrawProvisional(lat, lng float64)
	ClearProvisional()
}

type MapSync struct {
	mu       sync.Mutex
	registry *registry.Registry
	session  *session.Store
	renderer Renderer

	pins        map[int64]Pin
	provisional *[2]float64
}

func New(reg *registry.Registry, sessions *session.Store, renderer Renderer) *MapSync {
	return &MapSync{
		registry: reg,
		session:  sessions,
		renderer: renderer,
		pins:     make(map[int64]Pin),
	}
}

// Refresh re-syncs the registry and redraws every pin the viewer may
// see: the approved set for everyone, plus the viewer's own pending
// reports (all pending for admins) at reduced opacity with a pending
// badge. Other users' pending reports are never drawn for members.
func (m *MapSync) Refresh(ctx context.Context) error {
	if err := m.registry.Sync(ctx); err != nil {
		return errors.Wrap(err, "syncing registry")
	}

	viewer, _ := m.session.Current()
	approved := m.registry.ListApproved()
	pending := m.registry.ListPending(viewer)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.renderer.Clear()
	m.pins = make(map[int64]Pin, len(approved)+len(pending))
	for _, report := range approved {
		m.draw(report, opacityApproved, "")
	}
	for _, report := range pending {
		m.draw(report, opacityPending, badgePending)
	}

	if m.provisional != nil {
		m.renderer.DrawProvisional(m.provisional[0], m.provisional[1])
	}
	return nil
}

func (m *MapSync) draw(report model.Report, opacity float64, badge string) {
	icon, ok := iconForType[report.Type]
	if !ok {
		icon = iconDefault
	}
	pin := Pin{
		ReportID: report.ID,
		Lat:      report.Latitude,
		Lng:      report.Longitude,
		Icon:     icon,
		Opacity:  opacity,
		Badge:    badge,
	}
	m.pins[report.ID] = pin
	m.renderer.DrawPin(pin)
}

// SelectPoint places the single provisional pin used while composing a
// report. Selecting again moves it.
func (m *MapSync) SelectPoint(lat, lng float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provisional = &[2]float64{lat, lng}
	m.renderer.ClearProvisional()
	m.renderer.DrawProvisional(lat, lng)
}

// Provisional returns the composing position, if one is selected.
func (m *MapSync) Provisional() (lat, lng float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provisional == nil {
		return 0, 0, false
	}
	return m.provisional[0], m.provisional[1], true
}

// ClearProvisional drops the composing pin, typically after the draft
// is submitted or abandoned.
func (m *MapSync) ClearProvisional() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provisional = nil
	m.renderer.ClearProvisional()
}

// Pins returns a snapshot of the rendered markers keyed by report id.
func (m *MapSync) Pins() map[int64]Pin {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]Pin, len(m.pins))
	for id, pin := range m.pins {
		out[id] = pin
	}
	return out
}
