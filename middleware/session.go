package middleware

import (
	"net/http"
	"time"

	"github.com/erickaser0011-byte/royal-fox-admin/config"
	"github.com/erickaser0011-byte/royal-fox-admin/pkg/logger"
	"github.com/erickaser0011-byte/royal-fox-admin/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "royal_fox_session"

// SessionClaims is the payload of the session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// IssueSessionToken mints a signed session token for a logged-in operator.
func IssueSessionToken(cfg *config.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.SessionExpireHours) * time.Hour)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// SessionAuth gates the console. A request is authenticated when it carries
// a valid session cookie, or when the persisted login flag is set. The
// fallback reproduces the original console's behavior: logging out never
// clears durable storage, so the next visit restores the login.
func SessionAuth(cfg *config.AuthConfig, store *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, err := c.Cookie(SessionCookie); err == nil && tokenString != "" {
			claims := &SessionClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(cfg.SessionSecret), nil
			})
			if err == nil && token.Valid {
				c.Next()
				return
			}
		}

		loggedIn, _, err := store.Load(c.Request.Context())
		if err != nil {
			logger.Error(c.Request.Context(), "failed to load session state", "error", err)
		}
		if loggedIn {
			c.Next()
			return
		}

		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
