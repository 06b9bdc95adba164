package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
)

func (api *API) HelpRequestRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.SubmitHelpRequest))
	})

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin, api.RequireAdmin)
		r.Method(http.MethodGet, "/", Handler(api.GetHelpRequests))
	})

	return mux
}

func (api *API) SubmitHelpRequest(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateHelpRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	helpRequest, err := api.CreateHelpRequestRepo(r.Context(), req)
	if err != nil {
		return respondWithError(err, "failed to submit help request", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Help request submitted",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       helpRequest,
	}
}

func (api *API) GetHelpRequests(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	requests, err := api.GetHelpRequestsRepo(r.Context())
	if err != nil {
		return respondWithError(err, "failed to get help requests", values.Error, &tc)
	}
	if requests == nil {
		requests = []model.HelpRequest{}
	}

	return &ServerResponse{
		Message:    "Help requests retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       requests,
	}
}
