package rest

import (
	"context"
	"log"

	"github.com/relieflk/floodmap/internal/model"
)

func (api *API) CreateSituationReportRepo(ctx context.Context, sr model.SituationReport) (model.SituationReport, error) {
	query := `
        INSERT INTO situation_reports (title, description, submitted_by, file_name, file_type, file_url)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, timestamp
    `
	err := api.DB.QueryRow(ctx, query,
		sr.Title, sr.Description, sr.SubmittedBy, sr.FileName, sr.FileType, sr.FileURL,
	).Scan(&sr.ID, &sr.Timestamp)
	if err != nil {
		log.Println("error creating situation report", err)
		return model.SituationReport{}, err
	}
	return sr, nil
}

func (api *API) GetSituationReportsRepo(ctx context.Context) ([]model.SituationReport, error) {
	query := `
        SELECT id, title, description, submitted_by, timestamp, file_name, file_type, file_url
        FROM situation_reports
        ORDER BY timestamp DESC
    `
	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.SituationReport
	for rows.Next() {
		var sr model.SituationReport
		err := rows.Scan(&sr.ID, &sr.Title, &sr.Description, &sr.SubmittedBy, &sr.Timestamp, &sr.FileName, &sr.FileType, &sr.FileURL)
		if err != nil {
			return nil, err
		}
		reports = append(reports, sr)
	}
	return reports, rows.Err()
}
