package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/profilku/profilku/internal/authstate"
	"github.com/profilku/profilku/internal/models"
)

// fakeAuth mimics the auth client contract: handlers run under a dispatch
// lock that GetSession and SignOut also take, so re-entering from a handler
// would deadlock the test.
type fakeAuth struct {
	dispatch   sync.Mutex
	handlers   []*fakeSub
	session    *models.Session
	sessionErr error
	signOutErr error
	signOuts   int
}

type fakeSub struct {
	a      *fakeAuth
	fn     authstate.Handler
	active bool
}

func (s *fakeSub) Unsubscribe() {
	s.a.dispatch.Lock()
	defer s.a.dispatch.Unlock()
	s.active = false
}

func (a *fakeAuth) OnAuthStateChange(fn authstate.Handler) authstate.Subscription {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	sub := &fakeSub{a: a, fn: fn, active: true}
	a.handlers = append(a.handlers, sub)
	return sub
}

func (a *fakeAuth) emit(ev authstate.Event, s *models.Session) {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	for _, h := range a.handlers {
		if h.active {
			h.fn(ev, s)
		}
	}
}

func (a *fakeAuth) activeSubs() int {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	n := 0
	for _, h := range a.handlers {
		if h.active {
			n++
		}
	}
	return n
}

func (a *fakeAuth) GetSession(ctx context.Context) (*models.Session, error) {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	return a.session, a.sessionErr
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.dispatch.Lock()
	defer a.dispatch.Unlock()
	a.signOuts++
	return a.signOutErr
}

type fetchCall struct {
	userID string
	token  string
}

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []fetchCall
	byUser  map[string]*models.Profile
	err     error
	blockOn string
	release chan struct{}
	started chan string
}

func (f *fakeFetcher) Fetch(ctx context.Context, userID, token string) (*models.Profile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{userID, token})
	f.mu.Unlock()
	if f.started != nil {
		f.started <- userID
	}
	if f.blockOn == userID {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recorder struct {
	mu     sync.Mutex
	navs   []string
	toasts []models.Toast
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navs = append(r.navs, path)
}

func (r *recorder) Notify(t models.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *recorder) navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navs...)
}

func (r *recorder) notifications() []models.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Toast(nil), r.toasts...)
}

func waitSettled(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case <-c.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not settle")
	}
}

func session(userID string) *models.Session {
	return &models.Session{AccessToken: "tok-" + userID, User: models.User{ID: userID, Email: "a@b.com"}}
}

func strptr(s string) *string { return &s }
