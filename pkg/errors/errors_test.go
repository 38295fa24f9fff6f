package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      *StandardError
		expected int
	}{
		{NewInvalidRequest("bad", ""), http.StatusBadRequest},
		{NewValidationError("bad", "quantity"), http.StatusBadRequest},
		{NewPagingUnavailable("filtered"), http.StatusConflict},
		{NewNotFound("http://x"), http.StatusNotFound},
		{NewServerError("http://x"), http.StatusBadGateway},
		{NewUnexpectedStatus(418, "http://x"), http.StatusBadGateway},
		{NewDecodeError(stderrors.New("eof")), http.StatusBadGateway},
		{NewStorageError("write cart", stderrors.New("disk full")), http.StatusInternalServerError},
		{NewStandardError("Whatever", "", ""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatus())
		})
	}
}

func TestUnexpectedStatus_CarriesCode(t *testing.T) {
	err := NewUnexpectedStatus(429, "http://catalog")

	assert.Equal(t, 429, err.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestAs_ThroughWrapping(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("fetch page: %w", NewTransportError(cause))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeTransportError, stdErr.Code)
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.True(t, HasCode(wrapped, CodeTransportError))
	assert.False(t, HasCode(wrapped, CodeDecodeError))
}

func TestFromStatus(t *testing.T) {
	assert.Nil(t, FromStatus(200, "u"))
	assert.Nil(t, FromStatus(204, "u"))
	assert.Equal(t, CodeNotFound, FromStatus(404, "u").Code)
	assert.Equal(t, CodeServerError, FromStatus(500, "u").Code)

	unexpected := FromStatus(503, "u")
	assert.Equal(t, CodeUnexpectedStatus, unexpected.Code)
	assert.Equal(t, 503, unexpected.StatusCode)
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestInternalError_HidesCause(t *testing.T) {
	cause := stderrors.New("open /var/lib/smartshop/kv.db: permission denied")

	err := NewInternalError("internal server error", cause)

	assert.Empty(t, err.Details)
	assert.Equal(t, "internal server error", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}
