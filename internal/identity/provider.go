// Package identity integrates the external identity provider that owns
// credentials and account lifecycle. The application never stores passwords;
// it only provisions and deprovisions provider accounts alongside its own
// profile rows.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/pkg/config"
)

// CreateAccountRequest carries the fields the provider needs for a new
// account. The role lands in the account's public metadata.
type CreateAccountRequest struct {
	Username  string          `json:"username"`
	Password  string          `json:"password"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
}

// UpdateAccountRequest carries mutable account fields. An empty Password
// leaves the credential unchanged.
type UpdateAccountRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Provider is the external account authority. Failures are opaque: callers
// only learn that the operation did not happen.
type Provider interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (string, error)
	UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) error
	DeleteAccount(ctx context.Context, accountID string) error
}

// HTTPProvider talks to the provider's REST API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider constructs a provider client from configuration.
func NewHTTPProvider(cfg config.IdentityConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type accountResponse struct {
	ID string `json:"id"`
}

// CreateAccount provisions a new account and returns its external id.
func (p *HTTPProvider) CreateAccount(ctx context.Context, req CreateAccountRequest) (string, error) {
	var created accountResponse
	if err := p.do(ctx, http.MethodPost, "/v1/accounts", req, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("identity provider returned no account id")
	}
	return created.ID, nil
}

// UpdateAccount modifies an existing account.
func (p *HTTPProvider) UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) error {
	return p.do(ctx, http.MethodPatch, "/v1/accounts/"+accountID, req, nil)
}

// DeleteAccount removes an account.
func (p *HTTPProvider) DeleteAccount(ctx context.Context, accountID string) error {
	return p.do(ctx, http.MethodDelete, "/v1/accounts/"+accountID, nil, nil)
}

func (p *HTTPProvider) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode identity request: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity provider responded %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode identity response: %w", err)
		}
	}
	return nil
}
