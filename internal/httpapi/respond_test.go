package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/internal/domain"
)

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrValidation("bad input"), http.StatusBadRequest},
		{domain.ErrConflict("already there"), http.StatusConflict},
		{domain.ErrNotFound("missing"), http.StatusNotFound},
		{domain.ErrUnauthorized("no access"), http.StatusForbidden},
		{domain.ErrUnavailable("down", nil), http.StatusServiceUnavailable},
		{errors.New("plain"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		DomainError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, "%v", tc.err)
	}
}

func TestDomainErrorExposesDomainMessageOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	DomainError(rec, errors.New("sql: connection refused"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "nope")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nope", body["error"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
