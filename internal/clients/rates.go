package clients

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/olegsv/finkurs/internal/domain"
)

// RateClient talks to the static rate lookup service.
type RateClient struct {
	client *resty.Client
}

// NewRateClient builds a client for the given base URL.
func NewRateClient(baseURL string, timeout time.Duration) *RateClient {
	return &RateClient{client: newClient(baseURL, timeout)}
}

// Rate resolves the ruble rate of one currency. An unknown currency is a
// not-found error so callers can tell it apart from an outage.
func (c *RateClient) Rate(ctx context.Context, currency string) (decimal.Decimal, error) {
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("currency", currency).
		Get("/rate")
	if cerr := classify(resp, err); cerr != nil {
		if domain.IsKind(cerr, domain.KindValidation) {
			return decimal.Decimal{}, domain.ErrNotFound("unknown currency")
		}
		return decimal.Decimal{}, cerr
	}
	var body struct {
		Rate decimal.Decimal `json:"rate"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Decimal{}, domain.ErrUnavailable("malformed rate response", err)
	}
	if !body.Rate.IsPositive() {
		return decimal.Decimal{}, domain.ErrUnavailable("non-positive rate from service", nil)
	}
	return body.Rate, nil
}
