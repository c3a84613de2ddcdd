package clients

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/internal/domain"
)

// CurrencyClient talks to the currency storage service.
type CurrencyClient struct {
	client *resty.Client
}

// NewCurrencyClient builds a client for the given base URL.
func NewCurrencyClient(baseURL string, timeout time.Duration) *CurrencyClient {
	return &CurrencyClient{client: newClient(baseURL, timeout)}
}

type currencyPayload struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate"`
}

// List returns all stored currencies ordered by name.
func (c *CurrencyClient) List(ctx context.Context) ([]domain.Currency, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/currencies")
	if cerr := classify(resp, err); cerr != nil {
		return nil, cerr
	}
	var body struct {
		Currencies []currencyPayload `json:"currencies"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, domain.ErrUnavailable("malformed currency list", err)
	}
	out := make([]domain.Currency, 0, len(body.Currencies))
	for _, p := range body.Currencies {
		out = append(out, domain.Currency{Name: p.Name, Rate: p.Rate})
	}
	return out, nil
}

// Get fetches one currency by name.
func (c *CurrencyClient) Get(ctx context.Context, name string) (domain.Currency, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/currencies/" + name)
	if cerr := classify(resp, err); cerr != nil {
		return domain.Currency{}, cerr
	}
	var p currencyPayload
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return domain.Currency{}, domain.ErrUnavailable("malformed currency", err)
	}
	return domain.Currency{Name: p.Name, Rate: p.Rate}, nil
}

// Create stores a new currency; a duplicate yields a conflict.
func (c *CurrencyClient) Create(ctx context.Context, name string, rate decimal.Decimal) error {
	resp, err := c.client.R().SetContext(ctx).
		SetBody(currencyPayload{Name: name, Rate: rate}).
		Post("/load")
	return classify(resp, err)
}

// UpdateRate replaces the rate of an existing currency.
func (c *CurrencyClient) UpdateRate(ctx context.Context, name string, rate decimal.Decimal) error {
	resp, err := c.client.R().SetContext(ctx).
		SetBody(currencyPayload{Name: name, Rate: rate}).
		Post("/update_currency")
	return classify(resp, err)
}

// Delete removes a currency by name.
func (c *CurrencyClient) Delete(ctx context.Context, name string) error {
	resp, err := c.client.R().SetContext(ctx).
		SetBody(map[string]string{"name": name}).
		Post("/delete")
	return classify(resp, err)
}

// ConvertResult is the server-side conversion answer.
type ConvertResult struct {
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
}

// Convert asks the service to price an amount of the given currency.
func (c *CurrencyClient) Convert(ctx context.Context, name string, amount decimal.Decimal) (ConvertResult, error) {
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParams(map[string]string{
			"currency": name,
			"amount":   amount.String(),
		}).
		Get("/convert")
	if cerr := classify(resp, err); cerr != nil {
		return ConvertResult{}, cerr
	}
	var out ConvertResult
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return ConvertResult{}, domain.ErrUnavailable("malformed convert response", err)
	}
	return out, nil
}
