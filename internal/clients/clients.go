// Package clients holds the bot-side HTTP clients for the collaborator
// services. Every call is bounded by the configured per-call timeout and
// failures are mapped into the domain error taxonomy.
package clients

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/olegsv/finkurs/internal/domain"
)

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(timeout)
	c.SetHeader("Content-Type", "application/json")
	return c
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify turns a transport error or a non-2xx response into a domain error.
// A nil return means the response is a success and may be decoded.
func classify(resp *resty.Response, err error) error {
	if err != nil {
		return domain.ErrUnavailable("service unreachable", err)
	}
	if resp.IsSuccess() {
		return nil
	}

	msg := "service error"
	var envelope errorEnvelope
	if jsonErr := json.Unmarshal(resp.Body(), &envelope); jsonErr == nil {
		if envelope.Error != "" {
			msg = envelope.Error
		} else if envelope.Message != "" {
			msg = envelope.Message
		}
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return domain.ErrValidation(msg)
	case http.StatusConflict:
		return domain.ErrConflict(msg)
	case http.StatusNotFound:
		return domain.ErrNotFound(msg)
	case http.StatusForbidden:
		return domain.ErrUnauthorized(msg)
	default:
		return domain.ErrUnavailable(msg, nil)
	}
}
