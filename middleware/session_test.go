package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/config"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		SessionSecret:      "test-secret-key",
		SessionExpireHours: 24,
	}
}

func openStore(t *testing.T) *service.SessionStore {
	t.Helper()
	store, err := service.OpenSessionStore(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Failed to open session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sessionRouter(cfg *config.AuthConfig, store *service.SessionStore) *gin.Engine {
	router := gin.New()
	router.Use(SessionAuth(cfg, store))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})
	return router
}

func TestIssueSessionToken(t *testing.T) {
	cfg := testAuthConfig()

	token, expiresAt, err := IssueSessionToken(cfg)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	if token == "" {
		t.Error("Expected non-empty token")
	}

	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("Expiry time %v is not within expected range of %v", expiresAt, expectedExpiry)
	}
}

func TestSessionAuthWithValidCookie(t *testing.T) {
	cfg := testAuthConfig()
	store := openStore(t)
	router := sessionRouter(cfg, store)

	token, _, err := IssueSessionToken(cfg)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestSessionAuthWithoutCookieRedirects(t *testing.T) {
	cfg := testAuthConfig()
	store := openStore(t)
	router := sessionRouter(cfg, store)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %s", loc)
	}
}

func TestSessionAuthInvalidToken(t *testing.T) {
	cfg := testAuthConfig()
	store := openStore(t)
	router := sessionRouter(cfg, store)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect 302 for invalid token, got %d", w.Code)
	}
}

func TestSessionAuthRestoresFromPersistedFlag(t *testing.T) {
	cfg := testAuthConfig()
	store := openStore(t)
	router := sessionRouter(cfg, store)

	// A prior login persisted the flag; no cookie on this request.
	if err := store.Save(context.Background(), "http://x:3000"); err != nil {
		t.Fatalf("Failed to save session state: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected persisted flag to restore the session, got %d", w.Code)
	}
}
