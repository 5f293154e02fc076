// Package gateway is the console's HTTP client for the LLM-proxy gateway
// API. Every call attaches the supplied bearer credential; a 401 response
// fires the unauthorized hook before the error is returned so the caller
// can clear the offending credential in one place.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/relayforge/gateway-console/database/model"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// User is the canonical user record resolved for a live user credential.
type User struct {
	Id          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Quota       int64  `json:"quota"`
	UsedQuota   int64  `json:"used_quota"`
	Group       string `json:"group"`
}

// SiteInfo is the public site configuration returned by the gateway.
type SiteInfo struct {
	SiteMode          string `json:"site_mode"`
	RegistrationMode  string `json:"registration_mode"`
	LinuxDoEnabled    bool   `json:"linuxdo_enabled"`
	RequireInviteCode bool   `json:"require_invite_code"`
	Announcement      string `json:"announcement"`
}

// Client talks to the gateway API.
type Client struct {
	baseURL string
	http    *http.Client

	// UnauthorizedHook runs before a 401 is returned to the caller.
	UnauthorizedHook func(role model.Role)
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURL returns the configured gateway base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// request performs an HTTP call, decoding the JSON response into out when
// out is non-nil. A non-empty token is sent as a bearer credential for the
// given role.
func (c *Client) request(ctx context.Context, method, path string, role model.Role, token string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
		var eb errorBody
		if data, err := io.ReadAll(resp.Body); err == nil && json.Unmarshal(data, &eb) == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else if eb.Error != "" {
				apiErr.Message = eb.Error
			}
		}
		if resp.StatusCode == http.StatusUnauthorized && c.UnauthorizedHook != nil {
			c.UnauthorizedHook(role)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetSiteInfo fetches the public site configuration. No credential is sent.
func (c *Client) GetSiteInfo(ctx context.Context) (*SiteInfo, error) {
	var info SiteInfo
	if err := c.request(ctx, http.MethodGet, "/api/public/site-info", "", "", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Me fetches the user record for the given user credential.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/u/auth/me", model.RoleUser, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// AdminLogin exchanges the admin password for an admin bearer token.
func (c *Client) AdminLogin(ctx context.Context, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"password": password}
	if err := c.request(ctx, http.MethodPost, "/api/auth/login", "", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// UserLogin exchanges user account credentials for a user bearer token.
func (c *Client) UserLogin(ctx context.Context, account, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"account": account, "password": password}
	if err := c.request(ctx, http.MethodPost, "/api/u/auth/login", "", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// AdminLogout invalidates the admin token upstream. Best-effort.
func (c *Client) AdminLogout(ctx context.Context, token string) error {
	return c.request(ctx, http.MethodPost, "/api/auth/logout", model.RoleAdmin, token, nil, nil)
}

// UserLogout invalidates the user token upstream. Best-effort.
func (c *Client) UserLogout(ctx context.Context, token string) error {
	return c.request(ctx, http.MethodPost, "/api/u/auth/logout", model.RoleUser, token, nil, nil)
}
