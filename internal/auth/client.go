package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/profilku/profilku/internal/models"
)

// APIError is an error response from the hosted auth service. Message is the
// service's own text and is safe to show to the user verbatim.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the hosted auth REST API (`/auth/v1`). It is stateless; the
// per-browser session mirror lives in internal/sessions.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a hosted auth client. A nil http client gets a 15s timeout default.
func NewClient(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1", apiKey: apiKey, http: hc}
}

// SignInWithPassword exchanges email + password for a session (password grant).
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &s); err != nil {
		return nil, err
	}
	stampExpiry(&s)
	return &s, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &s); err != nil {
		return nil, err
	}
	stampExpiry(&s)
	return &s, nil
}

// SignOut revokes the session behind accessToken (local scope: this session only).
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout?scope=local", accessToken, nil, nil)
}

// GetUser returns the user owning accessToken; the service validates the token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return decodeAPIError(resp.StatusCode, b)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}

// decodeAPIError understands the shapes the auth service uses across versions:
// {"msg"}, {"message"}, {"error","error_description"}, plus "error_code".
func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
	}
	e := &APIError{Status: status}
	if err := json.Unmarshal(body, &payload); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}
	e.Code = payload.ErrorCode
	if e.Code == "" {
		e.Code = payload.Error
	}
	for _, m := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func stampExpiry(s *models.Session) {
	if s.ExpiresAt == 0 && s.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second).Unix()
	}
}
