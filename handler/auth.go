package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/config"
	"github.com/erickaser0011-byte/royal-fox-admin/middleware"
	"github.com/erickaser0011-byte/royal-fox-admin/pkg/logger"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/gin-gonic/gin"
)

// fallbackPassword is the fixed shared secret the original console shipped
// with. The configured secret defaults to empty, which means an empty
// submission is also accepted; that is a known gap in the shared-secret
// scheme, reproduced rather than silently fixed.
const fallbackPassword = "admin123"

type AuthHandler struct {
	cfg      *config.Config
	sessions *service.SessionStore
	backend  *service.BackendClient
	console  *service.Console
}

func NewAuthHandler(cfg *config.Config, sessions *service.SessionStore, backend *service.BackendClient, console *service.Console) *AuthHandler {
	return &AuthHandler{cfg: cfg, sessions: sessions, backend: backend, console: console}
}

// ShowLogin renders the login form, seeding the API URL from the persisted
// session state when present.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	ctx := c.Request.Context()

	_, savedURL, err := h.sessions.Load(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load persisted session", "error", err)
	}
	apiURL := savedURL
	if apiURL == "" {
		apiURL = h.backend.BaseURL()
	}

	c.HTML(http.StatusOK, "login.html", gin.H{"APIURL": apiURL})
}

// Login validates the shared secret and, on success, persists the session,
// switches the backend client to the entered URL and issues the session
// cookie. Failures get a visible rejection and nothing else: no lockout,
// no attempt counting.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	password := c.PostForm("password")
	apiURL := strings.TrimSpace(c.PostForm("api_url"))
	if apiURL == "" {
		apiURL = h.backend.BaseURL()
	}

	if password != h.cfg.Auth.Password && password != fallbackPassword {
		logger.Warn(ctx, "login rejected")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"APIURL": apiURL,
			"Error":  "Invalid password",
		})
		return
	}

	if err := h.sessions.Save(ctx, apiURL); err != nil {
		logger.Error(ctx, "failed to persist session", "error", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"APIURL": apiURL,
			"Error":  "Failed to save session state",
		})
		return
	}

	h.backend.SetBaseURL(apiURL)
	h.console.Invalidate()

	token, expiresAt, err := middleware.IssueSessionToken(&h.cfg.Auth)
	if err != nil {
		logger.Error(ctx, "failed to issue session token", "error", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"APIURL": apiURL,
			"Error":  "Failed to start session",
		})
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)

	logger.Info(ctx, "login accepted", "api_url", apiURL)
	c.Redirect(http.StatusFound, "/")
}

// Logout drops the session cookie only. The persisted login flag is left
// untouched on purpose: the next visit restores the login, matching the
// original console's behavior.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
