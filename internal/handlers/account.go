package handlers

import (
	"errors"
	"net/http"

	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) myPage(c *gin.Context) {
	u := currentUser(c)
	posts, err := h.services.ListPostsByAuthor(c.Request.Context(), u.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "mypage", gin.H{"Posts": posts})
}

func (h *Handler) myAccountPage(c *gin.Context) {
	h.render(c, http.StatusOK, "myaccount", gin.H{"Name": currentUser(c).Name})
}

// updateAccount renames the user (and optionally changes the password).
// Posts and comments pick up the new name in the same transaction.
func (h *Handler) updateAccount(c *gin.Context) {
	u := currentUser(c)
	name := c.PostForm("name")

	_, err := h.services.UpdateProfile(c.Request.Context(), u.SessionID, name, c.PostForm("password"))
	switch {
	case err == nil:
		if h.log != nil {
			h.log.Infow("account_updated", "user_id", u.ID)
		}
		c.Redirect(http.StatusSeeOther, "/mypage")
	case errors.Is(err, service.ErrUnauthenticated):
		c.Redirect(http.StatusSeeOther, "/sign_in")
	case errors.Is(err, service.ErrInvalidInput):
		h.render(c, http.StatusBadRequest, "myaccount", gin.H{"Name": name, "Error": err.Error()})
	case errors.Is(err, service.ErrProfileUpdate):
		// storage detail stays in the log, the page only gets the summary
		if h.log != nil {
			h.log.Errorw("account_update_failed", "user_id", u.ID, "err", err)
		}
		h.render(c, http.StatusBadRequest, "myaccount", gin.H{"Name": name, "Error": service.ErrProfileUpdate.Error()})
	default:
		h.renderError(c, err)
	}
}
