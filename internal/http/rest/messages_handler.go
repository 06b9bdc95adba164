package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
)

func (api *API) MessageRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/partners", Handler(api.GetChatPartners))
		r.Method(http.MethodGet, "/conversation", Handler(api.GetConversation))
		r.Method(http.MethodGet, "/unread-count", Handler(api.GetUnreadCount))
		r.Method(http.MethodPost, "/", Handler(api.SendMessage))
	})

	return mux
}

func (api *API) GetChatPartners(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	partners, status, message, err := api.ChatPartnersHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       partners,
	}
}

// GetConversation returns the two-party history in send order and, as a
// side effect, marks the partner's messages read for the viewer.
func (api *API) GetConversation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	partner := r.URL.Query().Get("partner")
	if partner == "" {
		return respondWithError(nil, "partner is required", values.BadRequestBody, &tc)
	}

	username, err := util.GetUsernameFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get username from context", values.NotAuthorised, &tc)
	}

	messages, err := api.GetConversationRepo(r.Context(), username, partner)
	if err != nil {
		return respondWithError(err, "failed to get conversation", values.Error, &tc)
	}
	if messages == nil {
		messages = []model.Message{}
	}

	if err := api.MarkConversationReadRepo(r.Context(), partner, username); err != nil {
		return respondWithError(err, "failed to mark conversation read", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Conversation retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       messages,
	}
}

func (api *API) GetUnreadCount(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	username, err := util.GetUsernameFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get username from context", values.NotAuthorised, &tc)
	}

	count, err := api.CountUnreadRepo(r.Context(), username)
	if err != nil {
		return respondWithError(err, "failed to count unread messages", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Unread count retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       model.UnreadCount{Count: count},
	}
}

func (api *API) SendMessage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.SendMessageRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	msg, status, message, err := api.SendMessageHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       msg,
	}
}
