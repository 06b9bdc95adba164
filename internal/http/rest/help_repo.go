package rest

import (
	"context"
	"log"

	"github.com/relieflk/floodmap/internal/model"
)

func (api *API) CreateHelpRequestRepo(ctx context.Context, req model.CreateHelpRequest) (model.HelpRequest, error) {
	query := `
        INSERT INTO help_requests (name, phone, lat, lng, needs, details)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, name, phone, lat, lng, needs, details, created_at
    `
	var hr model.HelpRequest
	err := api.DB.QueryRow(ctx, query,
		req.Name, req.Phone, req.Latitude, req.Longitude, req.Needs, req.Details,
	).Scan(
		&hr.ID, &hr.Name, &hr.Phone, &hr.Latitude, &hr.Longitude, &hr.Needs, &hr.Details, &hr.CreatedAt,
	)
	if err != nil {
		log.Println("error creating help request", err)
		return model.HelpRequest{}, err
	}
	return hr, nil
}

func (api *API) GetHelpRequestsRepo(ctx context.Context) ([]model.HelpRequest, error) {
	query := `
        SELECT id, name, phone, lat, lng, needs, details, created_at
        FROM help_requests
        ORDER BY id DESC
    `
	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.HelpRequest
	for rows.Next() {
		var hr model.HelpRequest
		err := rows.Scan(&hr.ID, &hr.Name, &hr.Phone, &hr.Latitude, &hr.Longitude, &hr.Needs, &hr.Details, &hr.CreatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, hr)
	}
	return requests, rows.Err()
}
