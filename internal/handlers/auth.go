package handlers

import (
	"errors"
	"net/http"

	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

const msgLoginFailed = "login failed"

func (h *Handler) signUpPage(c *gin.Context) {
	h.render(c, http.StatusOK, "sign_up", gin.H{"Name": "", "ID": ""})
}

func (h *Handler) signUpSuccess(c *gin.Context) {
	h.render(c, http.StatusOK, "sign_up_success", nil)
}

// signUp registers the account and sends the visitor to the confirmation
// page. The new account still has to sign in to get a cookie.
func (h *Handler) signUp(c *gin.Context) {
	name, id := c.PostForm("name"), c.PostForm("id")

	_, err := h.services.Register(c.Request.Context(), name, id, c.PostForm("pw"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.renderError(c, err)
			return
		}
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "id", id, "err", err)
		}
		h.render(c, status, "sign_up", gin.H{"Name": name, "ID": id, "Error": err.Error()})
		return
	}

	if h.log != nil {
		h.log.Infow("auth_sign_up", "id", id)
	}
	c.Redirect(http.StatusSeeOther, "/sign_up-success")
}

func (h *Handler) signInPage(c *gin.Context) {
	h.render(c, http.StatusOK, "sign_in", gin.H{"ID": ""})
}

func (h *Handler) signIn(c *gin.Context) {
	id := c.PostForm("id")

	u, err := h.services.Authenticate(c.Request.Context(), id, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrAuthFailure) {
			signInsTotal.WithLabelValues("error").Inc()
			h.renderError(c, err)
			return
		}
		signInsTotal.WithLabelValues("failure").Inc()
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "id", id)
		}
		h.render(c, http.StatusUnauthorized, "sign_in", gin.H{"ID": id, "Error": msgLoginFailed})
		return
	}

	signInsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(c, u.SessionID)
	c.Redirect(http.StatusSeeOther, "/")
}

// logout revokes the server-side session before clearing the cookie.
func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if err := h.services.Revoke(c.Request.Context(), token); err != nil && h.log != nil {
			h.log.Errorw("auth_logout_failed", "err", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}
