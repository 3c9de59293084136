package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRouter() (*gin.Engine, *string) {
	var seen string
	r := gin.New()
	r.Use(SessionCookie("profilku_sid", true, time.Hour))
	r.GET("/", func(c *gin.Context) {
		seen = SessionID(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestSessionCookie_IssuesNewID(t *testing.T) {
	r, seen := sessionRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.NoError(t, uuid.Validate(*seen))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "profilku_sid", cookies[0].Name)
	assert.Equal(t, *seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestSessionCookie_KeepsValidID(t *testing.T) {
	r, seen := sessionRouter()
	id := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "profilku_sid", Value: id})
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, id, *seen)
}

func TestSessionCookie_ReplacesForgedID(t *testing.T) {
	r, seen := sessionRouter()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "profilku_sid", Value: "../../etc"})
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "../../etc", *seen)
	assert.NoError(t, uuid.Validate(*seen))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetRequestID(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.NoError(t, uuid.Validate(seen))
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", w.Header().Get(RequestIDHeader))
}
