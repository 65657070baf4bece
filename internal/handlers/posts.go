package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"simple_forum/internal/models"
	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

// parsePage reads ?page=N. Missing or malformed values mean page 1.
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

func parsePostID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func postURL(id int) string {
	return fmt.Sprintf("/post/%d", id)
}

func (h *Handler) index(c *gin.Context) {
	page, err := h.services.ListPosts(c.Request.Context(), parsePage(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "index", gin.H{
		"Posts":      page.Posts,
		"Page":       page.Page,
		"TotalPages": page.TotalPages,
		"HasPrev":    page.Page > 1,
		"PrevPage":   page.Page - 1,
		"HasNext":    page.Page >= 1 && page.Page < page.TotalPages,
		"NextPage":   page.Page + 1,
	})
}

func (h *Handler) newPostPage(c *gin.Context) {
	h.render(c, http.StatusOK, "new_post", gin.H{"Title": "", "Content": ""})
}

func (h *Handler) createPost(c *gin.Context) {
	u := currentUser(c)
	title, content := c.PostForm("title"), c.PostForm("content")

	p, err := h.services.CreatePost(c.Request.Context(), u, title, content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.render(c, http.StatusBadRequest, "new_post", gin.H{"Title": title, "Content": content, "Error": err.Error()})
			return
		}
		h.renderError(c, err)
		return
	}

	postsCreatedTotal.Inc()
	if h.log != nil {
		h.log.Infow("post_created", "post_id", p.ID, "user_id", u.ID)
	}
	c.Redirect(http.StatusSeeOther, postURL(p.ID))
}

// showPost renders the post with its comments. Unknown ids go back to the feed.
func (h *Handler) showPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	p, err := h.services.GetPost(c.Request.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderPost(c, http.StatusOK, p, "")
}

func (h *Handler) renderPost(c *gin.Context, status int, p *models.Post, errMsg string) {
	comments, err := h.services.ListComments(c.Request.Context(), p.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	u := currentUser(c)
	h.render(c, status, "post", gin.H{
		"Post":     p,
		"Comments": comments,
		"IsAuthor": u != nil && u.ID == p.AuthorID,
		"Error":    errMsg,
	})
}

func (h *Handler) addComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	u := currentUser(c)

	cm, err := h.services.AddComment(c.Request.Context(), id, u, c.PostForm("content"))
	switch {
	case err == nil:
		commentsCreatedTotal.Inc()
		if h.log != nil {
			h.log.Infow("comment_created", "post_id", id, "comment_id", cm.ID, "user_id", u.ID)
		}
		c.Redirect(http.StatusSeeOther, postURL(id))
	case errors.Is(err, service.ErrPostNotFound):
		c.Redirect(http.StatusSeeOther, "/")
	case errors.Is(err, service.ErrInvalidInput):
		p, perr := h.services.GetPost(c.Request.Context(), id)
		if perr != nil {
			h.renderError(c, perr)
			return
		}
		h.renderPost(c, http.StatusBadRequest, p, err.Error())
	default:
		h.renderError(c, err)
	}
}
