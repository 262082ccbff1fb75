package v1_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kln-se/uml-diagrams/internal/domain"
	v1 "github.com/kln-se/uml-diagrams/internal/transport/web/v1"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrSelfSharing, http.StatusBadRequest},
		{domain.ErrDuplicateShare, http.StatusBadRequest},
		{domain.ErrAlreadyPublic, http.StatusBadRequest},
		{domain.ErrPublicPermission, http.StatusBadRequest},
		{domain.ErrRecipientNotFound, http.StatusBadRequest},
		{domain.ErrBadParams, http.StatusBadRequest},
		{domain.ErrUnauth, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrUnexpected, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, detail := v1.MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, "error %v", tc.err)
		assert.NotEmpty(t, detail)
	}
}

func TestWriteDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagrams/x/share-set-public", nil)

	v1.WriteDomainError(rec, req, domain.ErrAlreadyPublic)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"This diagram has already been shared publicly."}`, rec.Body.String())
}

func TestWriteJSON_Head(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/api/v1/health", nil)

	v1.WriteJSON(rec, req, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPageFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/diagrams?limit=50&offset=10", nil)
	p := v1.PageFromRequest(req)
	assert.Equal(t, domain.Page{Limit: 50, Offset: 10}, p)

	// мусор и превышение лимита нормализуются
	req = httptest.NewRequest(http.MethodGet, "/api/v1/diagrams?limit=junk&offset=-3", nil)
	p = v1.PageFromRequest(req)
	assert.Equal(t, domain.Page{Limit: 20, Offset: 0}, p)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/diagrams?limit=1000", nil)
	assert.Equal(t, 20, v1.PageFromRequest(req).Limit)
}
