package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"role": role,
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runRequest(handler gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthAcceptsValidToken(t *testing.T) {
	token := signToken(t, "student", time.Now().Add(time.Hour))
	w := runRequest(UserAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUserAuthRejectsMissingAndMalformed(t *testing.T) {
	cases := []string{"", "Bearer", "Token abc", "Bearer not-a-jwt"}
	for _, header := range cases {
		w := runRequest(UserAuth(testSecret), header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestUserAuthRejectsExpiredToken(t *testing.T) {
	token := signToken(t, "student", time.Now().Add(-time.Minute))
	w := runRequest(UserAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestAdminAuthRejectsStudentRole(t *testing.T) {
	token := signToken(t, "student", time.Now().Add(time.Hour))
	w := runRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin route, got %d", w.Code)
	}
}

func TestAdminAuthNeverRunsHandlerForStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	executed := false
	r := gin.New()
	r.GET("/admin", AdminAuth(testSecret), func(c *gin.Context) {
		executed = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	token := signToken(t, "student", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if executed {
		t.Fatal("admin handler ran for a student token")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminAuthAcceptsAdminRole(t *testing.T) {
	token := signToken(t, "admin", time.Now().Add(time.Hour))
	w := runRequest(AdminAuth(testSecret), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}
