package roled

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/internal/domain"
)

type fakeRepo struct {
	roles map[int64]domain.Role
	fail  error
}

func (f *fakeRepo) Get(_ context.Context, userID int64) (domain.Role, error) {
	if f.fail != nil {
		return "", f.fail
	}
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	// Absent rows resolve to the default role, mirroring the repository.
	return domain.RoleUser, nil
}

func (f *fakeRepo) Set(_ context.Context, userID int64, role domain.Role) error {
	if f.fail != nil {
		return f.fail
	}
	if f.roles == nil {
		f.roles = make(map[int64]domain.Role)
	}
	f.roles[userID] = role
	return nil
}

func serve(t *testing.T, repo Repo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(repo).Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCheckRoleAssigned(t *testing.T) {
	repo := &fakeRepo{roles: map[int64]domain.Role{100: domain.RoleAdmin}}
	rec := serve(t, repo, http.MethodGet, "/check_role?user_id=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decodeBody(t, rec)["role"])
}

func TestCheckRoleDefaultsToUser(t *testing.T) {
	rec := serve(t, &fakeRepo{}, http.MethodGet, "/check_role?user_id=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", decodeBody(t, rec)["role"])
}

func TestCheckRoleValidation(t *testing.T) {
	for _, target := range []string{"/check_role", "/check_role?user_id=abc", "/check_role?user_id=0", "/check_role?user_id=-4"} {
		rec := serve(t, &fakeRepo{}, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSetRole(t *testing.T) {
	repo := &fakeRepo{}
	rec := serve(t, repo, http.MethodPost, "/set_role", `{"user_id":55,"role":"ADMIN"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decodeBody(t, rec)["role"])
	assert.Equal(t, domain.RoleAdmin, repo.roles[55])
}

func TestSetRoleValidation(t *testing.T) {
	cases := []string{
		`{"user_id":0,"role":"admin"}`,
		`{"user_id":-3,"role":"admin"}`,
		`{"user_id":5,"role":"owner"}`,
		`{"user_id":5`,
	}
	for _, body := range cases {
		rec := serve(t, &fakeRepo{}, http.MethodPost, "/set_role", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestSetRoleStorageFailure(t *testing.T) {
	repo := &fakeRepo{fail: domain.ErrUnavailable("storage failure", nil)}
	rec := serve(t, repo, http.MethodPost, "/set_role", `{"user_id":5,"role":"user"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
