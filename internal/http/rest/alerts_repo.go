package rest

import (
	"context"
	"errors"
	"log"

	"github.com/relieflk/floodmap/internal/model"
	"github.com/twpayne/go-polyline"
)

var ErrAlertNotFound = errors.New("alert not found")

// Affected areas travel over the wire as coordinate lists but are
// stored as encoded polylines, one text column instead of a geometry.
func encodeArea(area [][]float64) string {
	if len(area) == 0 {
		return ""
	}
	return string(polyline.EncodeCoords(area))
}

func decodeArea(encoded string) [][]float64 {
	if encoded == "" {
		return nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		log.Println("error decoding alert area polyline", err)
		return nil
	}
	return coords
}

func (api *API) CreateAlertRepo(ctx context.Context, req model.CreateAlertRequest) (model.Alert, error) {
	query := `
        INSERT INTO alerts (title, content, severity, source, icon, area)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, title, content, severity, source, icon, timestamp, area
    `
	var alert model.Alert
	var area string
	err := api.DB.QueryRow(ctx, query,
		req.Title, req.Content, req.Severity, req.Source, req.Icon, encodeArea(req.Area),
	).Scan(
		&alert.ID, &alert.Title, &alert.Content, &alert.Severity,
		&alert.Source, &alert.Icon, &alert.Timestamp, &area,
	)
	if err != nil {
		log.Println("error creating alert", err)
		return model.Alert{}, err
	}
	alert.Area = decodeArea(area)
	return alert, nil
}

func (api *API) GetAlertsRepo(ctx context.Context) ([]model.Alert, error) {
	query := `
        SELECT id, title, content, severity, source, icon, timestamp, area
        FROM alerts
        ORDER BY timestamp DESC
    `
	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var alert model.Alert
		var area string
		err := rows.Scan(
			&alert.ID, &alert.Title, &alert.Content, &alert.Severity,
			&alert.Source, &alert.Icon, &alert.Timestamp, &area,
		)
		if err != nil {
			return nil, err
		}
		alert.Area = decodeArea(area)
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (api *API) DeleteAlertRepo(ctx context.Context, id int64) error {
	result, err := api.DB.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}
