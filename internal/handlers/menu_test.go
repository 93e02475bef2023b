package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func getMenuRequest(t *testing.T, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// filter validation rejects bad queries before any lookup
	r.GET("/menu", GetMenu(nil))
	req := httptest.NewRequest(http.MethodGet, "/menu"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMenuRejectsUnknownCategory(t *testing.T) {
	w := getMenuRequest(t, "?category=pizza")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetMenuRejectsBadAvailableFilter(t *testing.T) {
	for _, value := range []string{"banana", "1", "TRUE", "yes"} {
		w := getMenuRequest(t, "?available="+value)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("available=%s: expected 400, got %d: %s", value, w.Code, w.Body.String())
		}
		envelope := decodeEnvelope(t, w)
		if envelope["success"] != false {
			t.Fatalf("available=%s: expected success=false, got %v", value, envelope)
		}
	}
}
