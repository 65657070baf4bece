package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	templateGlob = "templates/*.html"
	layoutFile   = "templates/layout.html"
)

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}

// parsePages builds one template set per page, each paired with the layout.
func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	files, err := fs.Glob(fsys, templateGlob)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.New(path.Base(file)).Funcs(templateFuncs).ParseFS(fsys, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return pages, nil
}

// render executes page into a buffer so a template failure never leaves a
// half-written response.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	t, ok := h.pages[page]
	if !ok {
		h.renderError(c, fmt.Errorf("template %q not found", page))
		return
	}

	if data == nil {
		data = gin.H{}
	}
	data["User"] = currentUser(c)
	if _, ok := data["Error"]; !ok {
		data["Error"] = ""
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.renderError(c, fmt.Errorf("render %q: %w", page, err))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) renderError(c *gin.Context, err error) {
	if h.log != nil {
		h.log.Errorw("page_failed", "path", c.Request.URL.Path, "err", err)
	}
	c.String(http.StatusInternalServerError, "internal error")
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrProfileUpdate):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateIdentity):
		return http.StatusConflict
	case errors.Is(err, service.ErrAuthFailure),
		errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
