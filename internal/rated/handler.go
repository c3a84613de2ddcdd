// Package rated answers rate lookups from a fixed table. It keeps no state
// and exists so the bot's /operations view can price foreign currencies.
package rated

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/internal/domain"
	"github.com/olegsv/finkurs/internal/httpapi"
)

// Static table. Rates are in rubles per unit.
var defaultRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("79.60"),
	"EUR": decimal.RequireFromString("89.71"),
}

// Handler serves the static rate lookups.
type Handler struct {
	rates map[string]decimal.Decimal
}

// NewHandler builds a handler over the default table.
func NewHandler() *Handler {
	return &Handler{rates: defaultRates}
}

// Routes mounts the service endpoints on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/rate", h.rate)
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	name := domain.NormalizeCurrencyName(r.URL.Query().Get("currency"))
	rate, ok := h.rates[name]
	if !ok {
		httpapi.Message(w, http.StatusBadRequest, "UNKNOWN CURRENCY")
		return
	}
	httpapi.JSON(w, http.StatusOK, map[string]any{"rate": rate})
}
