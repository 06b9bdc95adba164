package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/relieflk/floodmap/internal/model"
	"github.com/relieflk/floodmap/util"
	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/register", Handler(api.Register))
	mux.Method(http.MethodPost, "/login", Handler(api.Login))
	mux.Method(http.MethodPost, "/logout", Handler(api.Logout))
	mux.Method(http.MethodPost, "/refresh", Handler(api.RefreshToken))
	mux.Method(http.MethodPost, "/google/login", Handler(api.LoginWithGoogle))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/me", Handler(api.Me))
	})

	return mux
}

func (api *API) googleOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  api.Config.GoogleRedirectURL,
		ClientID:     api.Config.GoogleClientID,
		ClientSecret: api.Config.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

func (api *API) Register(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.RegisterRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	user, status, message, err := api.CreateNewUser(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       user,
	}
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.LoginRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	login, status, message, err := api.LoginUser(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	api.setSessionCookie(w, login.Token)

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       login,
	}
}

// RefreshToken trades a valid refresh token for a fresh access token.
func (api *API) RefreshToken(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	claims, err := api.verifyToken(req.RefreshToken, true)
	if err != nil {
		return respondWithError(err, "invalid refresh token", values.NotAuthorised, &tc)
	}

	token, _, err := api.createToken(claims.UserID)
	if err != nil {
		return respondWithError(err, values.SystemErr, values.Error, &tc)
	}

	api.setSessionCookie(w, token)

	return &ServerResponse{
		Message:    "Token refreshed",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       map[string]string{"token": token},
	}
}

func (api *API) Logout(w http.ResponseWriter, r *http.Request) *ServerResponse {
	api.clearSessionCookie(w)

	return &ServerResponse{
		Message:    "Logged out",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) Me(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	user, err := api.GetUserByID(r.Context(), userID.String())
	if err != nil {
		return respondWithError(err, "user not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "User retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: model.AuthUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
	}
}

// LoginWithGoogle exchanges a Google access token for a local session,
// creating the member account on first sign-in.
func (api *API) LoginWithGoogle(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req struct {
		AccessToken string `json:"access_token"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	token := &oauth2.Token{AccessToken: req.AccessToken}
	client := api.googleOauthConfig().Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return respondWithError(err, "failed to get user info", values.Error, &tc)
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return respondWithError(err, "failed to decode user info", values.Error, &tc)
	}

	login, status, message, err := api.LoginGoogleUser(r.Context(), userInfo.Email)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	api.setSessionCookie(w, login.Token)

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       login,
	}
}

func (api *API) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.Config.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (api *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
