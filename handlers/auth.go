package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profilku/profilku/internal/auth"
	"github.com/profilku/profilku/internal/models"
	"github.com/profilku/profilku/pkg/logger"
	"github.com/profilku/profilku/pkg/middleware"
)

// SignInRequest is the sign-in form.
type SignInRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// AuthForm shows the sign-in form; a browser that already has a session goes
// straight to the dashboard.
func (h *PageHandler) AuthForm(c *gin.Context) {
	client := h.auth(c.Request.Context(), middleware.SessionID(c))
	s, err := client.GetSession(c.Request.Context())
	if err != nil {
		logger.Warnf("auth form: get session: %v", err)
	}
	if s != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "auth.tmpl", authPage{Toasts: h.popFlash(c)})
}

// SignIn signs the browser in with email and password.
func (h *PageHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "auth.tmpl", authPage{
			Email:  req.Email,
			Toasts: []models.Toast{errorToast("Email atau password tidak valid")},
		})
		return
	}

	client := h.auth(c.Request.Context(), middleware.SessionID(c))
	if _, err := client.SignInWithPassword(c.Request.Context(), req.Email, req.Password); err != nil {
		status := http.StatusBadGateway
		var apiErr *auth.APIError
		if errors.As(err, &apiErr) {
			status = http.StatusUnauthorized
		} else {
			logger.Errorf("sign in (request %s): %v", middleware.GetRequestID(c), err)
		}
		c.HTML(status, "auth.tmpl", authPage{Email: req.Email, Toasts: []models.Toast{errorToast(err.Error())}})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// SignOut runs the dashboard's sign-out action. On failure the dashboard is
// rendered again with the error; nothing navigates.
func (h *PageHandler) SignOut(c *gin.Context) {
	ctl, p := h.mount(c)
	defer ctl.Unmount()

	if nav, toasts := p.result(); nav != "" {
		h.redirect(c, http.StatusFound, nav, toasts)
		return
	}
	if err := ctl.SignOut(c.Request.Context()); err != nil {
		_, toasts := p.result()
		h.renderDashboard(c, http.StatusOK, ctl.Snapshot(), toasts)
		return
	}
	nav, toasts := p.result()
	h.redirect(c, http.StatusFound, nav, toasts)
}

func errorToast(msg string) models.Toast {
	return models.Toast{Title: "Error", Description: msg, Variant: models.VariantDestructive}
}
