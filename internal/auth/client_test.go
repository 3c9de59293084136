package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInWithPassword_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "a@b.com", body["email"])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "at",
			"refresh_token": "rt",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]string{"id": "u1", "email": "a@b.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "anon", nil)
	s, err := c.SignInWithPassword(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "at", s.AccessToken)
	require.Equal(t, "u1", s.User.ID)
	require.WithinDuration(t, time.Now().Add(time.Hour), s.Expiry(), 5*time.Second)
}

func TestSignInWithPassword_APIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon", nil).SignInWithPassword(context.Background(), "a@b.com", "bad")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_credentials", apiErr.Code)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestRefreshSession_OAuthStyleError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid Refresh Token: Refresh Token Not Found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "anon", nil).RefreshSession(context.Background(), "stale")
	require.Error(t, err)
	assert.Equal(t, "Invalid Refresh Token: Refresh Token Not Found", err.Error())
}

func TestSignOut_UsesUserToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "anon", nil).SignOut(context.Background(), "user-token"))
}

func TestSignOut_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "anon", nil).SignOut(context.Background(), "user-token")
	require.EqualError(t, err, "upstream unavailable")
}

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid JWT"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "a@b.com"})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(NewClient(srv.URL, "anon", nil))
	claims, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)

	_, err = v.Verify(context.Background(), "bad")
	require.EqualError(t, err, "invalid JWT")
}
