package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newGatedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin", RequireAuth(testSecret), RequireRoles("admin", "owner"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func hitAdmin(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminGateRejectsUserRole(t *testing.T) {
	r := newGatedRouter()

	// A token minted through self-registration carries role "user" and must
	// not reach admin-gated routes.
	w := hitAdmin(r, "Bearer "+signedToken(t, "user"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status: got %d want 403", w.Code)
	}
}

func TestAdminGateAllowsAdminRole(t *testing.T) {
	r := newGatedRouter()

	w := hitAdmin(r, "Bearer "+signedToken(t, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200, body %s", w.Code, w.Body.String())
	}
}

func TestAdminGateRejectsMissingToken(t *testing.T) {
	r := newGatedRouter()

	w := hitAdmin(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", w.Code)
	}
}

func TestAdminGateRejectsForgedSignature(t *testing.T) {
	r := newGatedRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": int64(1),
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	forged, err := token.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	w := hitAdmin(r, "Bearer "+forged)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", w.Code)
	}
}
