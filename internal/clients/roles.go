package clients

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/olegsv/finkurs/internal/domain"
)

// RoleClient talks to the role service.
type RoleClient struct {
	client *resty.Client
}

// NewRoleClient builds a client for the given base URL.
func NewRoleClient(baseURL string, timeout time.Duration) *RoleClient {
	return &RoleClient{client: newClient(baseURL, timeout)}
}

// Check resolves the role of a user. The service defaults absent records
// to the least-privileged role.
func (c *RoleClient) Check(ctx context.Context, userID int64) (domain.Role, error) {
	resp, err := c.client.R().SetContext(ctx).
		SetQueryParam("user_id", strconv.FormatInt(userID, 10)).
		Get("/check_role")
	if cerr := classify(resp, err); cerr != nil {
		return "", cerr
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", domain.ErrUnavailable("malformed role response", err)
	}
	role, ok := domain.ParseRole(body.Role)
	if !ok {
		return "", domain.ErrUnavailable("unknown role from service", nil)
	}
	return role, nil
}

// Set assigns a role to a user.
func (c *RoleClient) Set(ctx context.Context, userID int64, role domain.Role) error {
	resp, err := c.client.R().SetContext(ctx).
		SetBody(map[string]any{
			"user_id": userID,
			"role":    string(role),
		}).
		Post("/set_role")
	return classify(resp, err)
}
