package handlers

import (
	"errors"
	"net/http"

	"simple_forum/internal/models"
	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// TokenRequest is the body of POST /api/v1/auth/token.
type TokenRequest struct {
	ID       string `json:"id" binding:"required" example:"u1"`
	Password string `json:"password" binding:"required" example:"p1"`
}

// TokenResponse carries a bearer token bound to a fresh session.
type TokenResponse struct {
	Token string `json:"token"`
}

// CreatePostRequest is the body of POST /api/v1/posts.
type CreatePostRequest struct {
	Title   string `json:"title" binding:"required" example:"Hello"`
	Content string `json:"content" binding:"required" example:"World"`
}

// CreateCommentRequest is the body of POST /api/v1/posts/{id}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required" example:"Nice!"`
}

// PostDetail is a post together with its comment thread.
type PostDetail struct {
	Post     *models.Post     `json:"post"`
	Comments []models.Comment `json:"comments"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("api_bad_request_body", "path", c.Request.URL.Path, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// apiError writes the status statusFor picks. Only 5xx responses are logged.
func (h *Handler) apiError(c *gin.Context, logKey string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logAndJSONError(c, status, "internal error", logKey, err)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Issue API token
// @Description  Signs in and returns a bearer token. This replaces any existing session for the user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      TokenRequest  true  "Credentials"
// @Success      200   {object}  TokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/token [post]
func (h *Handler) apiIssueToken(c *gin.Context) {
	var input TokenRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.Authenticate(c.Request.Context(), input.ID, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailure) {
			signInsTotal.WithLabelValues("failure").Inc()
			if h.log != nil {
				h.log.Infow("api_sign_in_failed", "id", input.ID)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		signInsTotal.WithLabelValues("error").Inc()
		h.apiError(c, "api_sign_in_error", err)
		return
	}

	token, err := h.services.IssueToken(u.SessionID)
	if err != nil {
		h.apiError(c, "api_issue_token_failed", err)
		return
	}
	signInsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page  query     int  false  "Page number (1-based)"
// @Success      200   {object}  models.PostPage
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/posts [get]
func (h *Handler) apiListPosts(c *gin.Context) {
	page, err := h.services.ListPosts(c.Request.Context(), parsePage(c))
	if err != nil {
		h.apiError(c, "api_list_posts_failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  PostDetail
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) apiGetPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrPostNotFound.Error()})
		return
	}

	p, err := h.services.GetPost(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, "api_get_post_failed", err)
		return
	}
	comments, err := h.services.ListComments(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, "api_list_comments_failed", err)
		return
	}
	c.JSON(http.StatusOK, PostDetail{Post: p, Comments: comments})
}

// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      CreatePostRequest  true  "Post"
// @Success      201   {object}  models.Post
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/posts [post]
// @Security     BearerAuth
func (h *Handler) apiCreatePost(c *gin.Context) {
	var input CreatePostRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	p, err := h.services.CreatePost(c.Request.Context(), currentUser(c), input.Title, input.Content)
	if err != nil {
		h.apiError(c, "api_create_post_failed", err)
		return
	}
	postsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, p)
}

// @Summary      Add comment
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Post ID"
// @Param        body  body      CreateCommentRequest  true  "Comment"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/posts/{id}/comments [post]
// @Security     BearerAuth
func (h *Handler) apiAddComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrPostNotFound.Error()})
		return
	}
	var input CreateCommentRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	cm, err := h.services.AddComment(c.Request.Context(), id, currentUser(c), input.Content)
	if err != nil {
		h.apiError(c, "api_add_comment_failed", err)
		return
	}
	commentsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, cm)
}
