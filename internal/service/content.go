package service

import (
	"context"
	"fmt"
	"strings"

	"simple_forum/internal/models"
	"simple_forum/internal/repository"
)

type ContentService struct {
	posts    repository.PostRepo
	comments repository.CommentRepo
	pageSize int
}

func NewContentService(posts repository.PostRepo, comments repository.CommentRepo, pageSize int) *ContentService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &ContentService{posts: posts, comments: comments, pageSize: pageSize}
}

// ListPosts returns one page of the feed, newest first. Pages outside
// 1..TotalPages come back with an empty Posts slice.
func (s *ContentService) ListPosts(ctx context.Context, page int) (models.PostPage, error) {
	total, err := s.posts.Count(ctx)
	if err != nil {
		return models.PostPage{}, err
	}

	out := models.PostPage{
		Posts:      []models.Post{},
		Page:       page,
		TotalPages: (total + s.pageSize - 1) / s.pageSize,
	}
	if page < 1 || page > out.TotalPages {
		return out, nil
	}

	posts, err := s.posts.List(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return models.PostPage{}, err
	}
	out.Posts = posts
	return out, nil
}

func (s *ContentService) ListPostsByAuthor(ctx context.Context, userID string) ([]models.Post, error) {
	return s.posts.ListByAuthor(ctx, userID)
}

func (s *ContentService) CreatePost(ctx context.Context, author *models.User, title, content string) (models.Post, error) {
	if author == nil {
		return models.Post{}, ErrUnauthenticated
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return models.Post{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	return s.posts.Create(ctx, models.Post{
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
		Author:   author.Name,
	})
}

func (s *ContentService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *ContentService) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// AddComment attaches a comment to an existing post.
func (s *ContentService) AddComment(ctx context.Context, postID int, author *models.User, content string) (models.Comment, error) {
	if author == nil {
		return models.Comment{}, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%w: comment is empty", ErrInvalidInput)
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return models.Comment{}, err
	}
	return s.comments.Create(ctx, models.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		Author:   author.Name,
		Content:  content,
	})
}
