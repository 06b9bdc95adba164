package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relieflk/floodmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(w http.ResponseWriter, code int, status string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"message": http.StatusText(code),
		"status":  status,
		"data":    data,
	})
}

func TestDecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/markers/approved", r.URL.Path)
		respond(w, http.StatusOK, "success", []model.Report{
			{ID: 7, Name: "flooded junction", Status: model.StatusApproved},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	reports, err := c.ApprovedReports(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(7), reports[0].ID)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"bad request", http.StatusBadRequest, ErrValidation},
		{"unprocessable", http.StatusUnprocessableEntity, ErrValidation},
		{"conflict", http.StatusConflict, ErrConflict},
		{"server error", http.StatusInternalServerError, ErrServer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(w, tc.code, "err", nil)
			}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.PendingReports(context.Background())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.ApprovedReports(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestLoginStoresBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			respond(w, http.StatusOK, "success", model.LoginResponse{Token: "access-token"})
		case "/api/markers/pending":
			assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
			respond(w, http.StatusOK, "success", []model.Report{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), model.LoginRequest{Username: "nimal", Password: "secret"})
	require.NoError(t, err)

	_, err = c.PendingReports(context.Background())
	require.NoError(t, err)
}

func TestConversationQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/messages/conversation", r.URL.Path)
		assert.Equal(t, "ADMIN", r.URL.Query().Get("partner"))
		respond(w, http.StatusOK, "success", []model.Message{
			{ID: 1, Sender: "ADMIN", Recipient: "nimal", Content: "help is coming"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	messages, err := c.Conversation(context.Background(), "ADMIN")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "help is coming", messages[0].Content)
}

func TestSubmitReportSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.CreateReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "flooded junction", req.Name)

		respond(w, http.StatusCreated, "created", model.Report{ID: 1, Name: req.Name, Status: model.StatusPending})
	}))
	defer srv.Close()

	c := New(srv.URL)
	report, err := c.SubmitReport(context.Background(), model.CreateReportRequest{
		Name:      "flooded junction",
		Type:      model.TypeFlood,
		Latitude:  6.93,
		Longitude: 79.85,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ID)
	assert.Equal(t, model.StatusPending, report.Status)
}
