package util

import (
	"io"
	"strings"
	"testing"

	"github.com/relieflk/floodmap/util/tracing"
	"github.com/relieflk/floodmap/util/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{values.Success, 200},
		{values.Created, 201},
		{values.BadRequestBody, 400},
		{values.NotAuthorised, 401},
		{values.TokenExpired, 401},
		{values.NotAllowed, 403},
		{values.NotFound, 404},
		{values.Conflict, 409},
		{values.Unprocessable, 422},
		{values.Error, 500},
		{"anything-else", 200},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.status))
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	tc := tracing.Context{RequestID: "req-1"}

	var target struct {
		Name string `json:"name"`
	}
	body := io.NopCloser(strings.NewReader(`{"name":"kelani"}`))
	require.NoError(t, DecodeJSONBody(&tc, body, &target))
	assert.Equal(t, "kelani", target.Name)

	bad := io.NopCloser(strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSONBody(&tc, bad, &target))
}
