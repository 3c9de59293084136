package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/profilku/profilku/internal/dashboard"
	"github.com/profilku/profilku/internal/models"
	"github.com/profilku/profilku/internal/sessions"
	"github.com/profilku/profilku/pkg/logger"
	"github.com/profilku/profilku/pkg/middleware"
)

// AuthClient is the per-browser auth client the pages use.
type AuthClient interface {
	dashboard.AuthClient
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
}

// AuthFactory returns the auth client of one browser session.
type AuthFactory func(ctx context.Context, sid string) AuthClient

// AvatarResolver turns a stored avatar reference into a browser URL.
type AvatarResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// PageHandler serves the server-rendered pages.
type PageHandler struct {
	auth     AuthFactory
	profiles dashboard.ProfileFetcher
	avatars  AvatarResolver
	flash    sessions.FlashStore
	settle   time.Duration
}

// NewPageHandler wires the pages. avatars may be nil; settle bounds how long a
// page waits for its view to finish loading before rendering the loading state.
func NewPageHandler(auth AuthFactory, profiles dashboard.ProfileFetcher, avatars AvatarResolver, flash sessions.FlashStore, settle time.Duration) *PageHandler {
	if settle <= 0 {
		settle = 10 * time.Second
	}
	return &PageHandler{auth: auth, profiles: profiles, avatars: avatars, flash: flash, settle: settle}
}

// Register mounts the page routes.
func (h *PageHandler) Register(r gin.IRouter) {
	r.GET("/", h.Landing)
	r.GET("/dashboard", h.Dashboard)
	r.POST("/dashboard/payment", h.LinkPayment)
	r.GET("/auth", h.AuthForm)
	r.POST("/auth", h.SignIn)
	r.POST("/logout", h.SignOut)
}

// page collects what a mounted view asked for during one request.
type page struct {
	mu     sync.Mutex
	nav    string
	toasts []models.Toast
}

func (p *page) Navigate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.nav == "" {
		p.nav = path
	}
}

func (p *page) Notify(t models.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toasts = append(p.toasts, t)
}

func (p *page) result() (string, []models.Toast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nav, append([]models.Toast(nil), p.toasts...)
}

type dashboardPage struct {
	Loading bool
	Profile *dashboard.ProfileView
	Toasts  []models.Toast
}

type authPage struct {
	Email  string
	Toasts []models.Toast
}

// Landing is static; a signed-in browser sees it too.
func (h *PageHandler) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.tmpl", nil)
}

// Dashboard mounts the dashboard view and renders it once it settled.
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctl, p := h.mount(c)
	defer ctl.Unmount()

	nav, toasts := p.result()
	if nav != "" {
		h.redirect(c, http.StatusFound, nav, toasts)
		return
	}
	h.renderDashboard(c, http.StatusOK, ctl.Snapshot(), toasts)
}

// LinkPayment is the placeholder payment action; its toast is shown on the dashboard.
func (h *PageHandler) LinkPayment(c *gin.Context) {
	p := &page{}
	ctl := dashboard.NewController(h.auth(c.Request.Context(), middleware.SessionID(c)), h.profiles, p, p)
	defer ctl.Unmount()

	ctl.LinkPayment()
	_, toasts := p.result()
	h.redirect(c, http.StatusSeeOther, "/dashboard", toasts)
}

// mount starts a dashboard view for this request and waits until it settled
// or the settle timeout passed.
func (h *PageHandler) mount(c *gin.Context) (*dashboard.Controller, *page) {
	p := &page{}
	reqCtx := c.Request.Context()
	ctl := dashboard.NewController(h.auth(reqCtx, middleware.SessionID(c)), h.profiles, p, p)
	ctl.Mount(reqCtx)

	ctx, cancel := context.WithTimeout(reqCtx, h.settle)
	defer cancel()
	select {
	case <-ctl.Settled():
	case <-ctx.Done():
		logger.Warnf("dashboard did not settle (request %s): %v", middleware.GetRequestID(c), ctx.Err())
	}
	return ctl, p
}

func (h *PageHandler) renderDashboard(c *gin.Context, status int, st dashboard.State, toasts []models.Toast) {
	data := dashboardPage{Loading: st.Loading, Toasts: append(h.popFlash(c), toasts...)}
	if !st.Loading {
		v := dashboard.NewProfileView(st.Profile)
		if v.AvatarURL != "" && h.avatars != nil {
			resolved, err := h.avatars.Resolve(c.Request.Context(), v.AvatarURL)
			if err != nil {
				logger.Warnf("avatar for %s: %v", st.Profile.ID, err)
			}
			v.AvatarURL = resolved
		}
		data.Profile = &v
	}
	c.HTML(status, "dashboard.tmpl", data)
}

// redirect navigates the browser; pending toasts travel as flash messages.
func (h *PageHandler) redirect(c *gin.Context, status int, path string, toasts []models.Toast) {
	if len(toasts) > 0 {
		if err := h.flash.Push(c.Request.Context(), middleware.SessionID(c), toasts...); err != nil {
			logger.Warnf("flash: %v", err)
		}
	}
	c.Redirect(status, path)
}

func (h *PageHandler) popFlash(c *gin.Context) []models.Toast {
	toasts, err := h.flash.Pop(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		logger.Warnf("flash: %v", err)
	}
	return toasts
}
