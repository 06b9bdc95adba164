package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
)

const maxUploadBytes = 10 << 20 // 10 MiB

func (api *API) SituationReportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.UploadSituationReport))
	})

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin, api.RequireAdmin)
		r.Method(http.MethodGet, "/", Handler(api.GetSituationReports))
	})

	return mux
}

// UploadSituationReport accepts a multipart form with title, description
// and an optional file. The file goes to object storage; the record
// keeps the URL.
func (api *API) UploadSituationReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return respondWithError(err, "unable to parse upload", values.BadRequestBody, &tc)
	}

	title := r.FormValue("title")
	if title == "" {
		return respondWithError(nil, "title is required", values.BadRequestBody, &tc)
	}

	username, err := util.GetUsernameFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get username from context", values.NotAuthorised, &tc)
	}

	sr := model.SituationReport{
		Title:       title,
		Description: r.FormValue("description"),
		SubmittedBy: username,
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		name := fmt.Sprintf("%s-%d", username, time.Now().UnixNano())
		url, uploadErr := api.Deps.Cloudinary.UploadFile(r.Context(), file, name, "situation-reports")
		if uploadErr != nil {
			return respondWithError(uploadErr, "failed to store attachment", values.Error, &tc)
		}
		sr.FileName = header.Filename
		sr.FileType = header.Header.Get("Content-Type")
		sr.FileURL = url
	}

	saved, err := api.CreateSituationReportRepo(r.Context(), sr)
	if err != nil {
		return respondWithError(err, "failed to save situation report", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Situation report uploaded successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       saved,
	}
}

func (api *API) GetSituationReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reports, err := api.GetSituationReportsRepo(r.Context())
	if err != nil {
		return respondWithError(err, "failed to get situation reports", values.Error, &tc)
	}
	if reports == nil {
		reports = []model.SituationReport{}
	}

	return &ServerResponse{
		Message:    "Situation reports retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       reports,
	}
}
