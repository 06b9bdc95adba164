package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
	"github.com/relieflk/floodmap/util/websockets"
)

func (api *API) AlertRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetAlerts))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin, api.RequireAdmin)
		r.Method(http.MethodPost, "/", Handler(api.CreateAlert))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteAlert))
	})

	return mux
}

func (api *API) GetAlerts(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	alerts, err := api.GetAlertsRepo(r.Context())
	if err != nil {
		return respondWithError(err, "failed to get alerts", values.Error, &tc)
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}

	return &ServerResponse{
		Message:    "Alerts retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       alerts,
	}
}

func (api *API) CreateAlert(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateAlertRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	alert, err := api.CreateAlertRepo(r.Context(), req)
	if err != nil {
		return respondWithError(err, "failed to create alert", values.Error, &tc)
	}

	go api.Deps.Hub.BroadcastEvent(websockets.EventAlertCreated, alert)

	return &ServerResponse{
		Message:    "Alert published",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       alert,
	}
}

func (api *API) DeleteAlert(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid alert ID", values.BadRequestBody, &tc)
	}

	if err := api.DeleteAlertRepo(r.Context(), id); err != nil {
		if err == ErrAlertNotFound {
			return respondWithError(err, "alert not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to delete alert", values.Error, &tc)
	}

	go api.Deps.Hub.BroadcastEvent(websockets.EventAlertDeleted, id)

	return &ServerResponse{
		Message:    "Alert deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}
