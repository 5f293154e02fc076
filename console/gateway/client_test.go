package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayforge/gateway-console/database/model"
)

func TestMeSendsBearerCredential(t *testing.T) {
	var gotAuth, gotReqId string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/u/auth/me", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotReqId = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":9,"username":"alice","quota":1000}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	user, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqId)
	assert.Equal(t, 9, user.Id)
	assert.Equal(t, "alice", user.Username)
	assert.EqualValues(t, 1000, user.Quota)
}

func TestGetSiteInfoSendsNoCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public/site-info", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"site_mode":"service","registration_mode":"open","linuxdo_enabled":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	info, err := c.GetSiteInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "service", info.SiteMode)
	assert.Equal(t, "open", info.RegistrationMode)
	assert.True(t, info.LinuxDoEnabled)
}

func TestUnauthorizedHookFiresBeforeReturn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var hookedRole model.Role
	hooked := false
	c.UnauthorizedHook = func(role model.Role) {
		hooked = true
		hookedRole = role
	}

	_, err := c.Me(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, hooked, "hook must run before the error is returned")
	assert.Equal(t, model.RoleUser, hookedRole)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "token expired", err.Error())
}

func TestErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"message field", http.StatusBadRequest, `{"message":"bad password"}`, "bad password"},
		{"error field fallback", http.StatusForbidden, `{"error":"not allowed"}`, "not allowed"},
		{"message wins over error", http.StatusBadRequest, `{"message":"first","error":"second"}`, "first"},
		{"unparseable body", http.StatusBadGateway, `<html>oops</html>`, "HTTP 502"},
		{"empty body", http.StatusInternalServerError, ``, "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.GetSiteInfo(context.Background())
			require.Error(t, err)

			apiErr, ok := err.(*APIError)
			require.True(t, ok, "expected *APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expected, apiErr.Message)
		})
	}
}

func TestAdminLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"token":"admin-tok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	token, err := c.AdminLogin(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "admin-tok", token)
}

func TestUserLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/u/auth/login", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"wrong password"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	// Login failures are credential rejections, not session expiry; the
	// hook still fires but with no role to clear.
	var hookedRole model.Role = "untouched"
	c.UnauthorizedHook = func(role model.Role) { hookedRole = role }

	_, err := c.UserLogin(context.Background(), "alice", "nope")
	require.Error(t, err)
	assert.Equal(t, "wrong password", err.Error())
	assert.Equal(t, model.Role(""), hookedRole)
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	c := NewClient("http://example.test///")
	assert.Equal(t, "http://example.test", c.BaseURL())
}
