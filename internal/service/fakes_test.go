package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"simple_forum/internal/models"
	"simple_forum/internal/repository"
)

// In-memory stand-ins for the repository layer.

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]models.User

	getErr    error
	createErr error
	updateErr error

	createCalls int
	updateCalls []struct{ id, name, hash string }
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[u.ID]; ok {
		return repository.ErrDuplicateID
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, struct{ id, name, hash string }{id, name, hash})
	if f.updateErr != nil {
		return f.updateErr
	}
	u := f.byID[id]
	u.Name, u.PasswordHash = name, hash
	f.byID[id] = u
	return nil
}

type fakeSessions struct {
	mu     sync.Mutex
	byID   map[string]models.Session
	getErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.Session{}}
}

func (f *fakeSessions) Save(_ context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.byID {
		if existing.UserID == s.UserID {
			delete(f.byID, id)
		}
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type fakePosts struct {
	mu     sync.Mutex
	posts  []models.Post
	nextID int

	countErr  error
	listCalls int
}

func (f *fakePosts) Create(_ context.Context, p models.Post) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now().UTC()
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id int) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePosts) newestFirst() []models.Post {
	out := append([]models.Post(nil), f.posts...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakePosts) List(_ context.Context, limit, offset int) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	all := f.newestFirst()
	out := []models.Post{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakePosts) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts), f.countErr
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Post{}
	for _, p := range f.newestFirst() {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeComments struct {
	mu       sync.Mutex
	comments []models.Comment
}

func (f *fakeComments) Create(_ context.Context, c models.Comment) (models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = len(f.comments) + 1
	c.CreatedAt = time.Now().UTC()
	f.comments = append(f.comments, c)
	return c, nil
}

func (f *fakeComments) ListByPost(_ context.Context, postID int) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}
