package currencyd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/internal/domain"
)

type fakeRepo struct {
	currencies map[string]decimal.Decimal
	fail       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{currencies: map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("89.71"),
		"USD": decimal.RequireFromString("79.60"),
	}}
}

func (f *fakeRepo) List(context.Context) ([]domain.Currency, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]domain.Currency, 0, len(f.currencies))
	for _, name := range []string{"EUR", "USD"} {
		if rate, ok := f.currencies[name]; ok {
			out = append(out, domain.Currency{Name: name, Rate: rate})
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (domain.Currency, error) {
	if f.fail != nil {
		return domain.Currency{}, f.fail
	}
	rate, ok := f.currencies[name]
	if !ok {
		return domain.Currency{}, domain.ErrNotFound("currency not found")
	}
	return domain.Currency{Name: name, Rate: rate}, nil
}

func (f *fakeRepo) Create(_ context.Context, name string, rate decimal.Decimal) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.currencies[name]; ok {
		return domain.ErrConflict("currency already exists")
	}
	f.currencies[name] = rate
	return nil
}

func (f *fakeRepo) UpdateRate(_ context.Context, name string, rate decimal.Decimal) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.currencies[name]; !ok {
		return domain.ErrNotFound("currency not found")
	}
	f.currencies[name] = rate
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, name string) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.currencies[name]; !ok {
		return domain.ErrNotFound("currency not found")
	}
	delete(f.currencies, name)
	return nil
}

func serve(t *testing.T, repo Repo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(repo).Routes(r)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListCurrencies(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodGet, "/currencies", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	list, ok := body["currencies"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "EUR", first["name"])
}

func TestGetCurrencyNormalizesName(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodGet, "/currencies/usd", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "USD", decodeBody(t, rec)["name"])
}

func TestGetCurrencyNotFound(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodGet, "/currencies/GBP", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "currency not found", decodeBody(t, rec)["error"])
}

func TestLoadCurrency(t *testing.T) {
	repo := newFakeRepo()
	rec := serve(t, repo, http.MethodPost, "/load", `{"name":"gbp","rate":"107.2"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	saved, ok := repo.currencies["GBP"]
	require.True(t, ok)
	assert.True(t, saved.Equal(decimal.RequireFromString("107.2")))
}

func TestLoadDuplicateConflicts(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodPost, "/load", `{"name":"USD","rate":"80"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []string{"0", "-1"} {
		rec := serve(t, newFakeRepo(), http.MethodPost, "/load", `{"name":"GBP","rate":"`+rate+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rate %s", rate)
	}
}

func TestLoadRejectsMalformedBody(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodPost, "/load", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCurrency(t *testing.T) {
	repo := newFakeRepo()
	rec := serve(t, repo, http.MethodPost, "/update_currency", `{"name":"usd","rate":"81.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, repo.currencies["USD"].Equal(decimal.RequireFromString("81.5")))
}

func TestUpdateUnknownCurrency(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodPost, "/update_currency", `{"name":"GBP","rate":"107"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCurrency(t *testing.T) {
	repo := newFakeRepo()
	rec := serve(t, repo, http.MethodPost, "/delete", `{"name":"eur"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EUR", decodeBody(t, rec)["deleted"])
	_, ok := repo.currencies["EUR"]
	assert.False(t, ok)
}

func TestDeleteUnknownCurrency(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodPost, "/delete", `{"name":"GBP"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConvert(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodGet, "/convert?currency=usd&amount=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "USD", body["currency"])
	assert.Equal(t, "796.00", body["converted"])
}

func TestConvertValidation(t *testing.T) {
	cases := []string{
		"/convert",
		"/convert?currency=USD",
		"/convert?currency=USD&amount=abc",
		"/convert?currency=USD&amount=-5",
		"/convert?currency=USD&amount=0",
	}
	for _, target := range cases {
		rec := serve(t, newFakeRepo(), http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	rec := serve(t, newFakeRepo(), http.MethodGet, "/convert?currency=GBP&amount=10", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageFailureMapsToServiceUnavailable(t *testing.T) {
	repo := newFakeRepo()
	repo.fail = domain.ErrUnavailable("storage failure", nil)
	rec := serve(t, repo, http.MethodGet, "/currencies", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
