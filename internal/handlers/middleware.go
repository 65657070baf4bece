package handlers

import (
	"net/http"
	"strings"
	"time"

	"simple_forum/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "session_id"
	ctxUserKey    = "user"
)

// loadSession resolves the session cookie, if any, and stores the user in
// the gin context. Storage errors are logged and the request continues
// anonymously.
func (h *Handler) loadSession(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.Next()
		return
	}

	u, err := h.services.Resolve(c.Request.Context(), token)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_resolve_failed", "err", err)
		}
		c.Next()
		return
	}
	if u != nil {
		c.Set(ctxUserKey, u)
	}
	c.Next()
}

// requireUser sends anonymous visitors to the sign-in page.
func (h *Handler) requireUser(c *gin.Context) {
	if currentUser(c) == nil {
		c.Redirect(http.StatusSeeOther, "/sign_in")
		c.Abort()
		return
	}
	c.Next()
}

// bearerAuth accepts "Authorization: Bearer <jwt>" where the token wraps a
// live session.
func (h *Handler) bearerAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	sid, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	u, err := h.services.Resolve(c.Request.Context(), sid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "api_session_resolve_failed", err)
		c.Abort()
		return
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "session revoked or expired",
		})
		return
	}

	c.Set(ctxUserKey, u)
	c.Next()
}

// requestLogger writes one structured line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"route", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.opts.SessionTTL),
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
