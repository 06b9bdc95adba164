package rest

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/relieflk/floodmap/internal/model"
)

var (
	ErrReportNotFound = errors.New("report not found")
	// ErrAlreadyTransitioned means the report exists but has left the
	// pending state; the caller decides whether that is a no-op or a
	// conflict based on the returned current state.
	ErrAlreadyTransitioned = errors.New("report already moderated")
)

const reportColumns = `id, name, description, type, severity, status, lat, lng, submitted_by, created_at`

func scanReport(row pgx.Row) (model.Report, error) {
	var r model.Report
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.Type, &r.Severity, &r.Status,
		&r.Latitude, &r.Longitude, &r.SubmittedBy, &r.Timestamp,
	)
	return r, err
}

// CreateReportRepo inserts a new report in the pending state.
func (api *API) CreateReportRepo(ctx context.Context, req model.CreateReportRequest) (model.Report, error) {
	query := `
        INSERT INTO reports (
            name, description, type, severity, status, lat, lng, submitted_by
        ) VALUES (
            $1, $2, $3,
            COALESCE(NULLIF($4, ''), 'low'),
            'pending',
            $5, $6, $7
        ) RETURNING ` + reportColumns

	report, err := scanReport(api.DB.QueryRow(ctx, query,
		req.Name, req.Description, req.Type, req.Severity,
		req.Latitude, req.Longitude, req.SubmittedBy,
	))
	if err != nil {
		log.Println("error creating report", err)
		return model.Report{}, err
	}
	return report, nil
}

// GetReportByIDRepo retrieves a report by ID
func (api *API) GetReportByIDRepo(ctx context.Context, id int64) (model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(api.DB.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return model.Report{}, ErrReportNotFound
	}
	return report, err
}

// GetApprovedReportsRepo returns the public map feed, newest first.
// Ordering by id stands in for recency: ids are backend-assigned serials.
func (api *API) GetApprovedReportsRepo(ctx context.Context) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = 'approved' ORDER BY id DESC`
	return api.queryReports(ctx, query)
}

func (api *API) GetReportsByStatusRepo(ctx context.Context, status string) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = $1 ORDER BY id DESC`
	return api.queryReports(ctx, query, status)
}

func (api *API) GetPendingReportsByUserRepo(ctx context.Context, username string) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = 'pending' AND submitted_by = $1 ORDER BY id DESC`
	return api.queryReports(ctx, query, username)
}

// GetUserReportsRepo retrieves all reports submitted by one user, any status.
func (api *API) GetUserReportsRepo(ctx context.Context, username string) ([]model.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE submitted_by = $1 ORDER BY id DESC`
	return api.queryReports(ctx, query, username)
}

func (api *API) queryReports(ctx context.Context, query string, args ...interface{}) ([]model.Report, error) {
	rows, err := api.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// TransitionReportRepo applies pending -> status atomically. The WHERE
// clause makes the first moderation action win; a losing concurrent
// call sees ErrAlreadyTransitioned with the current row.
func (api *API) TransitionReportRepo(ctx context.Context, id int64, status string) (model.Report, error) {
	query := `
        UPDATE reports
        SET status = $2
        WHERE id = $1 AND status = 'pending'
        RETURNING ` + reportColumns

	report, err := scanReport(api.DB.QueryRow(ctx, query, id, status))
	if err == nil {
		return report, nil
	}
	if err != pgx.ErrNoRows {
		log.Println("error transitioning report", err)
		return model.Report{}, err
	}

	// Not pending: either missing or already moderated.
	current, getErr := api.GetReportByIDRepo(ctx, id)
	if getErr != nil {
		return model.Report{}, getErr
	}
	return current, ErrAlreadyTransitioned
}

// DeleteReportRepo removes a report outright. Admin escape hatch,
// outside the moderation lifecycle.
func (api *API) DeleteReportRepo(ctx context.Context, id int64) error {
	result, err := api.DB.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}
