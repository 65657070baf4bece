package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"simple_forum/internal/models"
	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockIdentity struct {
	registerUser *models.User
	registerErr  error
	authUser     *models.User
	authErr      error
	updateUser   *models.User
	updateErr    error

	lastRegister    [3]string // name, id, password
	lastAuthID      string
	lastUpdateToken string
	lastUpdateName  string
	updateCalls     int
}

func (m *mockIdentity) Register(_ context.Context, name, id, password string) (*models.User, error) {
	m.lastRegister = [3]string{name, id, password}
	return m.registerUser, m.registerErr
}

func (m *mockIdentity) Authenticate(_ context.Context, id, _ string) (*models.User, error) {
	m.lastAuthID = id
	return m.authUser, m.authErr
}

func (m *mockIdentity) UpdateProfile(_ context.Context, token, name, _ string) (*models.User, error) {
	m.updateCalls++
	m.lastUpdateToken = token
	m.lastUpdateName = name
	return m.updateUser, m.updateErr
}

// mockSessions resolves tokens from a map.
type mockSessions struct {
	users      map[string]*models.User
	resolveErr error
	revoked    []string
}

func (m *mockSessions) Resolve(_ context.Context, token string) (*models.User, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	u, ok := m.users[token]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.SessionID = token
	return &cp, nil
}

func (m *mockSessions) Revoke(_ context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	delete(m.users, token)
	return nil
}

type mockContent struct {
	mu sync.Mutex

	page       models.PostPage
	pageErr    error
	posts      map[int]*models.Post
	comments   map[int][]models.Comment
	created    models.Post
	createErr  error
	commentErr error

	lastPage       int
	lastPostAuthor *models.User
	lastComment    string
	addCalls       int
}

func (m *mockContent) ListPosts(_ context.Context, page int) (models.PostPage, error) {
	m.lastPage = page
	return m.page, m.pageErr
}

func (m *mockContent) ListPostsByAuthor(_ context.Context, userID string) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range m.posts {
		if p.AuthorID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockContent) CreatePost(_ context.Context, author *models.User, _, _ string) (models.Post, error) {
	m.lastPostAuthor = author
	return m.created, m.createErr
}

func (m *mockContent) GetPost(_ context.Context, id int) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, service.ErrPostNotFound
	}
	return p, nil
}

func (m *mockContent) ListComments(_ context.Context, postID int) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.comments[postID]; ok {
		return c, nil
	}
	return []models.Comment{}, nil
}

func (m *mockContent) AddComment(_ context.Context, postID int, author *models.User, content string) (models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls++
	m.lastComment = content
	if m.commentErr != nil {
		return models.Comment{}, m.commentErr
	}
	if _, ok := m.posts[postID]; !ok {
		return models.Comment{}, service.ErrPostNotFound
	}
	c := models.Comment{ID: m.addCalls, PostID: postID, AuthorID: author.ID, Author: author.Name, Content: content}
	m.comments[postID] = append(m.comments[postID], c)
	return c, nil
}

func (m *mockContent) setComments(postID int, c []models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments[postID] = c
}

type mockTokens struct {
	issued   string
	issueErr error
	parseSID string
	parseErr error

	lastIssueSID string
}

func (m *mockTokens) IssueToken(sessionID string) (string, error) {
	m.lastIssueSID = sessionID
	return m.issued, m.issueErr
}

func (m *mockTokens) ParseToken(string) (string, error) {
	return m.parseSID, m.parseErr
}

// ---- Shared Test Helpers ----

type mocks struct {
	identity *mockIdentity
	sessions *mockSessions
	content  *mockContent
	tokens   *mockTokens
}

var alice = &models.User{ID: "u1", Name: "Alice"}

func newMocks() *mocks {
	return &mocks{
		identity: &mockIdentity{},
		sessions: &mockSessions{users: map[string]*models.User{"tok-alice": alice}},
		content: &mockContent{
			page:     models.PostPage{Posts: []models.Post{}, Page: 1},
			posts:    map[int]*models.Post{1: {ID: 1, Title: "Hello", Content: "World", AuthorID: "u1", Author: "Alice", CreatedAt: time.Now()}},
			comments: map[int][]models.Comment{},
		},
		tokens: &mockTokens{},
	}
}

func (m *mocks) service() *service.Service {
	return &service.Service{Identity: m.identity, Sessions: m.sessions, Content: m.content, Tokens: m.tokens}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{SessionTTL: time.Hour, SecureCookie: true})
	return h.InitRoutes()
}

// do sends a request; a non-nil form is encoded as the body and token, if
// set, goes in the session cookie.
func do(t *testing.T, r http.Handler, method, target string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
