package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/srad/techhub/conf"
)

func setupRouter(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	previous := conf.AppCfg.Secret
	conf.AppCfg.Secret = "test-secret"
	t.Cleanup(func() { conf.AppCfg.Secret = previous })

	r := gin.New()
	r.GET("/", handler, func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func signed(t *testing.T, secret string, id uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": id, "exp": 4102444800})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Error signing token: %v", err)
	}
	return s
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentity(t *testing.T) {
	r := setupRouter(t, Identity)

	if w := get(r, ""); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Errorf("Anonymous request should pass: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "Bearer "+signed(t, "test-secret", 7)); w.Code != http.StatusOK || w.Body.String() != "7" {
		t.Errorf("Valid token should set user id: %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "Bearer "+signed(t, "other", 7)); w.Code != http.StatusUnauthorized {
		t.Errorf("Foreign token should be rejected: %d", w.Code)
	}
	if w := get(r, "Token abc"); w.Code != http.StatusUnauthorized {
		t.Errorf("Malformed header should be rejected: %d", w.Code)
	}
}

func TestCheckAuthorizationHeader(t *testing.T) {
	r := setupRouter(t, CheckAuthorizationHeader)

	if w := get(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Missing header should be rejected: %d", w.Code)
	}
	if w := get(r, "Bearer "+signed(t, "test-secret", 3)); w.Code != http.StatusOK || w.Body.String() != "3" {
		t.Errorf("Valid token rejected: %d %s", w.Code, w.Body.String())
	}
}
