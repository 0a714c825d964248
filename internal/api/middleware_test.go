package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func claimsEcho(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"role": role, "admin": IsAdmin(c), "actor": actor(c)})
	})
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := claimsEcho(OptionalAuthMiddleware(testSecret))

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":null,"admin":false,"actor":""}`, w.Body.String())

	w = serve(r, "Token abc")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, "Bearer "+token(t, "Admin", "a@x.io"))
	assert.JSONEq(t, `{"role":"Admin","admin":true,"actor":"a@x.io"}`, w.Body.String())
}

func TestOptionalAuthMiddleware_WrongSecretIgnored(t *testing.T) {
	r := claimsEcho(OptionalAuthMiddleware("other-secret"))
	w := serve(r, "Bearer "+token(t, "Admin", "a@x.io"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":null,"admin":false,"actor":""}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	r := claimsEcho(AuthMiddleware(testSecret))
	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic dXNlcg==").Code)
	assert.Equal(t, http.StatusOK, serve(r, "Bearer "+token(t, "User", "u@x.io")).Code)

	unconfigured := claimsEcho(AuthMiddleware(""))
	assert.Equal(t, http.StatusInternalServerError, serve(unconfigured, "Bearer x").Code)
}

func TestAdminMiddleware(t *testing.T) {
	r := claimsEcho(AuthMiddleware(testSecret), AdminMiddleware())
	assert.Equal(t, http.StatusForbidden, serve(r, "Bearer "+token(t, "User", "u@x.io")).Code)
	assert.Equal(t, http.StatusOK, serve(r, "Bearer "+token(t, "Admin", "a@x.io")).Code)
}
