package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
)

func (api *API) MarkerRoutes() chi.Router {
	mux := chi.NewRouter()

	// Public map feed
	mux.Method(http.MethodGet, "/approved", Handler(api.GetApprovedMarkers))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/pending", Handler(api.GetPendingMarkers))
		r.Method(http.MethodGet, "/my-reports", Handler(api.GetMyReports))
		r.Method(http.MethodPost, "/report", Handler(api.SubmitReport))
	})

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin, api.RequireAdmin)
		r.Method(http.MethodGet, "/rejected", Handler(api.GetRejectedMarkers))
		r.Method(http.MethodPut, "/{id}/approve", Handler(api.ApproveMarker))
		r.Method(http.MethodPut, "/{id}/reject", Handler(api.RejectMarker))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteMarker))
	})

	return mux
}

func (api *API) GetApprovedMarkers(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reports, err := api.GetApprovedReportsRepo(r.Context())
	if err != nil {
		return respondWithError(err, "failed to get approved reports", values.Error, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    "Approved reports retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reports,
	}
}

// GetPendingMarkers returns every pending report to admins and only the
// caller's own pending reports to members. Scoping is enforced here, not
// in the browser.
func (api *API) GetPendingMarkers(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reports, status, message, err := api.PendingReportsHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       reports,
	}
}

func (api *API) GetRejectedMarkers(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reports, err := api.GetReportsByStatusRepo(r.Context(), model.StatusRejected)
	if err != nil {
		return respondWithError(err, "failed to get rejected reports", values.Error, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    "Rejected reports retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reports,
	}
}

func (api *API) GetMyReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	username, err := util.GetUsernameFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get username from context", values.NotAuthorised, &tc)
	}

	reports, err := api.GetUserReportsRepo(r.Context(), username)
	if err != nil {
		return respondWithError(err, "failed to get reports", values.Error, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    "Reports retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reports,
	}
}

func (api *API) SubmitReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateReportRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	username, err := util.GetUsernameFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get username from context", values.NotAuthorised, &tc)
	}
	// Submissions require a login; the authenticated name always wins
	// over whatever the body carried.
	req.SubmittedBy = username

	report, status, message, err := api.SubmitReportHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func (api *API) ApproveMarker(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	report, status, message, err := api.ApproveReportHelper(r.Context(), id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func (api *API) RejectMarker(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	report, status, message, err := api.RejectReportHelper(r.Context(), id)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func (api *API) DeleteMarker(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid report ID", values.BadRequestBody, &tc)
	}

	if err := api.DeleteReportRepo(r.Context(), id); err != nil {
		if err == ErrReportNotFound {
			return respondWithError(err, "report not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to delete report", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Report deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}
