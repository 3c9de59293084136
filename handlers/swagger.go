package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints describing the routes.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>profilku · Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document of the page and ops routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "profilku", "version": "v0.1.0" },
  "paths": {
    "/": { "get": { "summary": "Landing page", "responses": { "200": { "description": "HTML" } } } },
    "/auth": {
      "get": { "summary": "Sign-in form", "responses": { "200": { "description": "HTML" }, "302": { "description": "already signed in, to /dashboard" } } },
      "post": {
        "summary": "Sign in with email and password",
        "requestBody": { "content": { "application/x-www-form-urlencoded": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string","format":"email"},"password":{"type":"string"}}}}}},
        "responses": { "302": { "description": "signed in, to /dashboard" }, "400": { "description": "invalid form" }, "401": { "description": "rejected by the auth service" } }
      }
    },
    "/dashboard": { "get": { "summary": "Account dashboard", "responses": { "200": { "description": "HTML" }, "302": { "description": "no session, to /auth" } } } },
    "/dashboard/payment": { "post": { "summary": "Link payment (placeholder)", "responses": { "303": { "description": "back to /dashboard with a notice" } } } },
    "/logout": { "post": { "summary": "Sign out", "responses": { "302": { "description": "signed out, to /auth" }, "200": { "description": "sign-out failed, dashboard with the error" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
