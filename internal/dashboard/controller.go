// Package dashboard holds the per-mount controller of the account dashboard:
// it follows the browser's auth state, loads the signed-in user's profile and
// runs the dashboard actions.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/profilku/profilku/internal/authstate"
	"github.com/profilku/profilku/internal/loop"
	"github.com/profilku/profilku/internal/models"
	"github.com/profilku/profilku/pkg/logger"
	"github.com/profilku/profilku/pkg/metrics"
)

// AuthPath is where a browser without a session is sent.
const AuthPath = "/auth"

// Navigator performs client-side navigation.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a toast.
type Notifier interface {
	Notify(t models.Toast)
}

// AuthClient is the auth surface a mounted dashboard needs.
type AuthClient interface {
	OnAuthStateChange(fn authstate.Handler) authstate.Subscription
	GetSession(ctx context.Context) (*models.Session, error)
	SignOut(ctx context.Context) error
}

// ProfileFetcher performs the profile point lookup.
type ProfileFetcher interface {
	Fetch(ctx context.Context, userID, accessToken string) (*models.Profile, error)
}

// State is what the dashboard renders.
type State struct {
	Loading bool
	Session *models.Session
	Profile *models.Profile
}

// Controller drives one mounted dashboard. All state changes happen on its
// loop; Snapshot may be called from any goroutine.
type Controller struct {
	auth     AuthClient
	profiles ProfileFetcher
	nav      Navigator
	notify   Notifier
	loop     *loop.Loop

	// gen identifies the newest session detection; older ones may not
	// navigate or publish a profile.
	gen atomic.Uint64

	mu    sync.Mutex
	state State

	ctx    context.Context
	cancel context.CancelFunc
	sub    authstate.Subscription

	settled     chan struct{}
	settleOnce  sync.Once
	unmountOnce sync.Once
}

func NewController(auth AuthClient, profiles ProfileFetcher, nav Navigator, notify Notifier) *Controller {
	return &Controller{
		auth:     auth,
		profiles: profiles,
		nav:      nav,
		notify:   notify,
		loop:     loop.New(),
		settled:  make(chan struct{}),
	}
}

// Mount subscribes to auth state changes and queries the current session once.
// Both paths converge on the same handling.
func (c *Controller) Mount(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	c.sub = c.auth.OnAuthStateChange(c.onAuthStateChange)
	c.loop.Post(c.querySession)
}

// onAuthStateChange runs inside the auth client's dispatch and must not call
// back into it, so the follow-up goes to the next loop turn.
func (c *Controller) onAuthStateChange(ev authstate.Event, s *models.Session) {
	gen := c.gen.Add(1)
	logger.Debugf("dashboard: auth event %s (gen %d)", ev, gen)
	c.loop.Post(func() { c.apply(gen, s) })
}

func (c *Controller) querySession() {
	s, err := c.auth.GetSession(c.ctx)
	gen := c.gen.Add(1)
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		logger.Errorf("dashboard: get session: %v", err)
		if !c.current(gen) {
			return
		}
		c.notify.Notify(models.Toast{Title: "Error", Description: "Gagal memuat sesi", Variant: models.VariantDestructive})
		c.setLoading(false)
		c.nav.Navigate(AuthPath)
		c.settle()
		return
	}
	c.apply(gen, s)
}

func (c *Controller) apply(gen uint64, s *models.Session) {
	if !c.current(gen) {
		return
	}
	c.mu.Lock()
	c.state.Session = s
	c.mu.Unlock()

	if s == nil {
		c.nav.Navigate(AuthPath)
		c.settle()
		return
	}
	c.loop.Post(func() { c.fetchProfile(gen, s) })
}

func (c *Controller) fetchProfile(gen uint64, s *models.Session) {
	if !c.current(gen) {
		return
	}
	p, err := c.profiles.Fetch(c.ctx, s.User.ID, s.AccessToken)
	if !c.current(gen) || c.ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{"user_id": s.User.ID}).Errorf("dashboard: load profile: %v", err)
		c.notify.Notify(models.Toast{Title: "Error", Description: "Gagal memuat profil", Variant: models.VariantDestructive})
		c.setLoading(false)
		c.settle()
		return
	}
	c.mu.Lock()
	c.state.Profile = p
	c.state.Loading = false
	c.mu.Unlock()
	c.settle()
}

func (c *Controller) current(gen uint64) bool {
	return c.gen.Load() == gen
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.state.Loading = v
	c.mu.Unlock()
}

func (c *Controller) settle() {
	c.settleOnce.Do(func() { close(c.settled) })
}

// Settled is closed once the view navigated away or finished loading the profile.
func (c *Controller) Settled() <-chan struct{} {
	return c.settled
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Unmount releases the auth subscription and stops the loop. After it returns
// no auth event reaches the controller. Safe to call more than once.
func (c *Controller) Unmount() {
	c.unmountOnce.Do(func() {
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		if c.cancel != nil {
			c.cancel()
		}
		c.loop.Stop()
	})
}

// SignOut ends the session. On failure the service's message is shown and the
// view stays where it is.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		metrics.SignOuts.WithLabelValues("error").Inc()
		logger.Errorf("dashboard: sign out: %v", err)
		c.notify.Notify(models.Toast{Title: "Error", Description: err.Error(), Variant: models.VariantDestructive})
		return err
	}
	metrics.SignOuts.WithLabelValues("ok").Inc()
	c.notify.Notify(models.Toast{Title: "Berhasil", Description: "Anda telah keluar", Variant: models.VariantDefault})
	c.nav.Navigate(AuthPath)
	return nil
}

// LinkPayment is a placeholder until payments exist.
func (c *Controller) LinkPayment() {
	c.notify.Notify(models.Toast{Title: "Segera Hadir", Description: "Fitur pembayaran akan segera tersedia", Variant: models.VariantDefault})
}
