// Package currencyd exposes the currency storage service: CRUD over the
// currencies table plus server-side conversion.
package currencyd

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/internal/domain"
	"github.com/olegsv/finkurs/internal/httpapi"
)

// Repo is the slice of the currency repository the handlers need.
type Repo interface {
	List(ctx context.Context) ([]domain.Currency, error)
	GetByName(ctx context.Context, name string) (domain.Currency, error)
	Create(ctx context.Context, name string, rate decimal.Decimal) error
	UpdateRate(ctx context.Context, name string, rate decimal.Decimal) error
	Delete(ctx context.Context, name string) error
}

// Handler serves the currency endpoints.
type Handler struct {
	repo Repo
}

// NewHandler builds the service handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

// Routes mounts the service endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/currencies", h.list)
	r.Get("/currencies/{name}", h.get)
	r.Get("/convert", h.convert)
	r.Post("/load", h.load)
	r.Post("/update_currency", h.update)
	r.Post("/delete", h.delete)
}

type currencyPayload struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

type namePayload struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.repo.List(r.Context())
	if err != nil {
		httpapi.DomainError(w, err)
		return
	}
	out := make([]currencyPayload, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, currencyPayload{Name: c.Name, Rate: c.Rate})
	}
	httpapi.JSON(w, http.StatusOK, map[string]any{"currencies": out})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	name := domain.NormalizeCurrencyName(chi.URLParam(r, "name"))
	c, err := h.repo.GetByName(r.Context(), name)
	if err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, currencyPayload{Name: c.Name, Rate: c.Rate})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	var payload currencyPayload
	if err := httpapi.Decode(r, &payload); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	name := domain.NormalizeCurrencyName(payload.Name)
	if name == "" || !payload.Rate.IsPositive() {
		httpapi.Error(w, http.StatusBadRequest, "name and positive rate are required")
		return
	}
	if err := h.repo.Create(r.Context(), name, payload.Rate); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusCreated, currencyPayload{Name: name, Rate: payload.Rate})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var payload currencyPayload
	if err := httpapi.Decode(r, &payload); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	name := domain.NormalizeCurrencyName(payload.Name)
	if name == "" || !payload.Rate.IsPositive() {
		httpapi.Error(w, http.StatusBadRequest, "name and positive rate are required")
		return
	}
	if err := h.repo.UpdateRate(r.Context(), name, payload.Rate); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, currencyPayload{Name: name, Rate: payload.Rate})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	var payload namePayload
	if err := httpapi.Decode(r, &payload); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	name := domain.NormalizeCurrencyName(payload.Name)
	if name == "" {
		httpapi.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.repo.Delete(r.Context(), name); err != nil {
		httpapi.DomainError(w, err)
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]string{"deleted": name})
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	name := domain.NormalizeCurrencyName(r.URL.Query().Get("currency"))
	rawAmount := r.URL.Query().Get("amount")
	if name == "" || rawAmount == "" {
		httpapi.Error(w, http.StatusBadRequest, "currency and amount are required")
		return
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		httpapi.Error(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	c, err := h.repo.GetByName(r.Context(), name)
	if err != nil {
		httpapi.DomainError(w, err)
		return
	}
	converted := amount.Mul(c.Rate).Round(2)
	httpapi.JSON(w, http.StatusOK, map[string]any{
		"currency":  c.Name,
		"rate":      c.Rate,
		"converted": converted,
	})
}
