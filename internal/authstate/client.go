package authstate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/profilku/profilku/internal/auth"
	"github.com/profilku/profilku/internal/models"
	"github.com/profilku/profilku/internal/sessions"
	"github.com/profilku/profilku/pkg/logger"
	"github.com/profilku/profilku/pkg/metrics"
)

// API is the part of the hosted auth REST API the client drives.
type API interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Store persists the session mirror per browser session id.
type Store interface {
	Put(ctx context.Context, id string, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// Factory builds per-browser clients sharing one hub and backing services.
type Factory struct {
	Hub         *Hub
	API         API
	Store       Store
	Verifier    auth.Verifier // optional
	Revocations *sessions.Revocations
}

// ForSession returns the auth client of one browser session. ctx bounds the
// background work the client starts (initial session delivery).
func (f *Factory) ForSession(ctx context.Context, sid string) *Client {
	return &Client{
		ctx:      ctx,
		sid:      sid,
		hub:      f.Hub,
		api:      f.API,
		store:    f.Store,
		verifier: f.Verifier,
		revoked:  f.Revocations,
		now:      time.Now,
	}
}

// Client is the auth surface a mounted view talks to: a subscription to
// auth state changes, a current-session query and sign in / sign out.
type Client struct {
	ctx      context.Context
	sid      string
	hub      *Hub
	api      API
	store    Store
	verifier auth.Verifier
	revoked  *sessions.Revocations
	now      func() time.Time
}

// OnAuthStateChange registers fn for this browser session. Like the hosted
// SDK, the new listener receives INITIAL_SESSION asynchronously.
func (c *Client) OnAuthStateChange(fn Handler) Subscription {
	sub := c.hub.subscribe(c.sid, fn)
	go func() {
		s, err := c.GetSession(c.ctx)
		if err != nil {
			logger.Warnf("initial session for %s: %v", c.sid, err)
			s = nil
		}
		metrics.AuthEvents.WithLabelValues(string(InitialSession)).Inc()
		c.hub.emitTo(c.sid, sub.l, InitialSession, s)
	}()
	return sub
}

// GetSession returns the current session, refreshing an expired access token
// first. A browser without a usable session gets (nil, nil).
func (c *Client) GetSession(ctx context.Context) (*models.Session, error) {
	s, err := c.store.Get(ctx, c.sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	revoked, err := c.revoked.IsRevoked(ctx, s.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		_ = c.store.Delete(ctx, c.sid)
		return nil, nil
	}
	if s.Expired(c.now()) {
		return c.refresh(ctx, s)
	}
	if c.verifier != nil {
		if _, err := c.verifier.Verify(ctx, s.AccessToken); err != nil {
			logger.Warnf("session %s: access token rejected: %v", c.sid, err)
			return nil, nil
		}
	}
	return s, nil
}

func (c *Client) refresh(ctx context.Context, s *models.Session) (*models.Session, error) {
	ns, err := c.api.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		var apiErr *auth.APIError
		if errors.As(err, &apiErr) {
			// refresh token rejected: the session is over
			_ = c.store.Delete(ctx, c.sid)
			c.emit(SignedOut, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if err := c.store.Put(ctx, c.sid, ns); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	c.emit(TokenRefreshed, ns)
	return ns, nil
}

// SignInWithPassword signs the browser in and notifies its listeners.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	s, err := c.api.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, c.sid, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	c.emit(SignedIn, s)
	return s, nil
}

// SignOut ends the hosted session. The returned error carries the service's
// message; on error the mirror is left untouched.
func (c *Client) SignOut(ctx context.Context) error {
	s, err := c.store.Get(ctx, c.sid)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if s != nil {
		if err := c.api.SignOut(ctx, s.AccessToken); err != nil && !sessionAlreadyGone(err) {
			return err
		}
		if err := c.revoked.Revoke(ctx, s.AccessToken, time.Until(s.Expiry())); err != nil {
			logger.Warnf("revoke access token for %s: %v", c.sid, err)
		}
		if err := c.store.Delete(ctx, c.sid); err != nil {
			return fmt.Errorf("remove session: %w", err)
		}
	}
	c.emit(SignedOut, nil)
	return nil
}

func (c *Client) emit(ev Event, s *models.Session) {
	metrics.AuthEvents.WithLabelValues(string(ev)).Inc()
	c.hub.emit(c.sid, ev, s)
}

// sessionAlreadyGone reports sign-out errors meaning the hosted session no
// longer exists; signing out locally is still correct then.
func sessionAlreadyGone(err error) bool {
	var apiErr *auth.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
