package apperrors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("deal"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := NotFound("lead").Wrap(sql.ErrNoRows)
	wrapped := fmt.Errorf("service: %w", base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "lead not found", got.Message)
	assert.ErrorIs(t, wrapped, sql.ErrNoRows)
	assert.True(t, Is(wrapped, TypeNotFound))
	assert.Equal(t, http.StatusNotFound, Status(wrapped))
}

func TestStatusUntyped(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(fmt.Errorf("plain")))
	assert.False(t, Is(fmt.Errorf("plain"), TypeValidation))
}

func TestWithDescriptionCopies(t *testing.T) {
	base := Validation("Error")
	described := base.WithDescription("No %s selected for deletion.", "deals")

	assert.Empty(t, base.Description)
	assert.Equal(t, "No deals selected for deletion.", described.Description)
	assert.Equal(t, "validation: Error", described.Error())
}

func TestResponse(t *testing.T) {
	status, body := Response(Validation("Error").WithDescription("New passwords do not match"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, Body{Error: "Error", Description: "New passwords do not match"}, body)

	status, body = Response(fmt.Errorf("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Empty(t, body.Description)
}
