package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-admin-api/internal/models"
	"github.com/campushq/school-admin-api/pkg/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPProvider(config.IdentityConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
}

func TestHTTPProviderCreateAccount(t *testing.T) {
	var got CreateAccountRequest
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "acct-9"})
	})

	id, err := provider.CreateAccount(context.Background(), CreateAccountRequest{
		Username: "jdoe",
		Password: "supersecret",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-9", id)
	assert.Equal(t, models.RoleStudent, got.Role)
}

func TestHTTPProviderCreateAccountMissingID(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := provider.CreateAccount(context.Background(), CreateAccountRequest{Username: "jdoe"})
	assert.Error(t, err)
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := provider.DeleteAccount(context.Background(), "acct-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestHTTPProviderDeletePath(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1/accounts/acct-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, provider.DeleteAccount(context.Background(), "acct-1"))
}
