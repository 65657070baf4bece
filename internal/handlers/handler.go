package handlers

import (
	"html/template"
	"time"

	"simple_forum/internal/logger"
	"simple_forum/internal/service"
	"simple_forum/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options holds the cookie settings the handlers need from config.
type Options struct {
	SessionTTL   time.Duration
	SecureCookie bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	pages    map[string]*template.Template
}

// NewHandler constructs a new HTTP handler with dependencies. It panics if
// the embedded templates fail to parse.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	pages, err := parsePages(web.Templates)
	if err != nil {
		panic(err)
	}
	return &Handler{services: services, log: log, opts: opts, pages: pages}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger, recordMetrics)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	h.registerPageRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	pages := r.Group("", h.loadSession)
	{
		pages.GET("/", h.index)
		pages.GET("/sign_up", h.signUpPage)
		pages.POST("/sign_up/", h.signUp)
		pages.GET("/sign_up-success", h.signUpSuccess)
		pages.GET("/sign_in", h.signInPage)
		pages.POST("/sign_in/", h.signIn)
		pages.GET("/logout", h.logout)
		pages.GET("/post/:id", h.showPost)
		pages.GET("/post/:id/live", h.liveComments)
	}

	member := pages.Group("", h.requireUser)
	{
		member.GET("/mypage", h.myPage)
		member.GET("/myaccount", h.myAccountPage)
		member.POST("/myaccount/", h.updateAccount)
		member.GET("/post/new", h.newPostPage)
		member.POST("/post/new", h.createPost)
		member.POST("/post/:id/comment", h.addComment)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/auth/token", h.apiIssueToken)
		api.GET("/posts", h.apiListPosts)
		api.GET("/posts/:id", h.apiGetPost)
	}

	authed := api.Group("", h.bearerAuth)
	{
		authed.POST("/posts", h.apiCreatePost)
		authed.POST("/posts/:id/comments", h.apiAddComment)
	}
}
