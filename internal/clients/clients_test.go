package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegsv/finkurs/internal/domain"
)

const testTimeout = 2 * time.Second

func jsonResponse(t *testing.T, w http.ResponseWriter, code int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestCurrencyClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currencies", r.URL.Path)
		jsonResponse(t, w, http.StatusOK, map[string]any{
			"currencies": []map[string]string{
				{"name": "EUR", "rate": "89.71"},
				{"name": "USD", "rate": "79.60"},
			},
		})
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.URL, testTimeout)
	got, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "EUR", got[0].Name)
	assert.True(t, got[0].Rate.Equal(decimal.RequireFromString("89.71")))
}

func TestCurrencyClientCreateConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/load", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		jsonResponse(t, w, http.StatusConflict, map[string]string{"error": "currency already exists"})
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.URL, testTimeout)
	err := c.Create(context.Background(), "USD", decimal.RequireFromString("80"))
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Contains(t, err.Error(), "currency already exists")
}

func TestCurrencyClientUpdateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusNotFound, map[string]string{"error": "currency not found"})
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.URL, testTimeout)
	err := c.UpdateRate(context.Background(), "GBP", decimal.RequireFromString("107"))
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestCurrencyClientConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("currency"))
		assert.Equal(t, "10", r.URL.Query().Get("amount"))
		jsonResponse(t, w, http.StatusOK, map[string]string{
			"currency":  "USD",
			"rate":      "79.60",
			"converted": "796.00",
		})
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.URL, testTimeout)
	got, err := c.Convert(context.Background(), "USD", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.Converted.Equal(decimal.RequireFromString("796")))
}

func TestCurrencyClientUnreachable(t *testing.T) {
	c := NewCurrencyClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnavailable))
}

func TestRateClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate", r.URL.Path)
		jsonResponse(t, w, http.StatusOK, map[string]string{"rate": "79.60"})
	}))
	defer srv.Close()

	c := NewRateClient(srv.URL, testTimeout)
	rate, err := c.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("79.6")))
}

func TestRateClientUnknownCurrencyIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusBadRequest, map[string]string{"message": "UNKNOWN CURRENCY"})
	}))
	defer srv.Close()

	c := NewRateClient(srv.URL, testTimeout)
	_, err := c.Rate(context.Background(), "GBP")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestRateClientRejectsNonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, map[string]string{"rate": "0"})
	}))
	defer srv.Close()

	c := NewRateClient(srv.URL, testTimeout)
	_, err := c.Rate(context.Background(), "USD")
	assert.True(t, domain.IsKind(err, domain.KindUnavailable))
}

func TestRoleClientCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check_role", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("user_id"))
		jsonResponse(t, w, http.StatusOK, map[string]string{"role": "admin"})
	}))
	defer srv.Close()

	c := NewRoleClient(srv.URL, testTimeout)
	role, err := c.Check(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestRoleClientCheckUnknownRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, http.StatusOK, map[string]string{"role": "owner"})
	}))
	defer srv.Close()

	c := NewRoleClient(srv.URL, testTimeout)
	_, err := c.Check(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnavailable))
}

func TestRoleClientSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/set_role", r.URL.Path)
		var payload struct {
			UserID int64  `json:"user_id"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(42), payload.UserID)
		assert.Equal(t, "user", payload.Role)
		jsonResponse(t, w, http.StatusOK, map[string]string{"role": "user"})
	}))
	defer srv.Close()

	c := NewRoleClient(srv.URL, testTimeout)
	require.NoError(t, c.Set(context.Background(), 42, domain.RoleUser))
}
