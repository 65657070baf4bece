package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"simple_forum/internal/models"
)

var postCols = []string{"id", "title", "content", "author_id", "author", "created_at"}

func TestPostRepository_Create_AssignsIDAndUTCTime(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertPostSQL)).
		WithArgs("Hello", "World", "u1", "Alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	before := time.Now().UTC()
	p, err := NewPostRepository(db).Create(context.Background(), models.Post{
		Title: "Hello", Content: "World", AuthorID: "u1", Author: "Alice",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != 7 {
		t.Fatalf("want id 7, got %d", p.ID)
	}
	if p.CreatedAt.Location() != time.UTC || p.CreatedAt.Before(before) {
		t.Fatalf("created_at not assigned as UTC now: %v", p.CreatedAt)
	}
}

func TestPostRepository_Create_LastInsertIDError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertPostSQL)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no last id")))

	if _, err := NewPostRepository(db).Create(context.Background(), models.Post{Title: "t"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostRepository_List_PassesLimitOffset(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(postCols).
		AddRow(2, "b", "B", "u1", "Alice", now.Add(time.Minute)).
		AddRow(1, "a", "A", "u1", "Alice", now)
	mock.ExpectQuery(regexp.QuoteMeta(selectPostPageSQL)).WithArgs(5, 10).WillReturnRows(rows)

	got, err := NewPostRepository(db).List(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("unexpected posts: %+v", got)
	}
}

func TestPostRepository_List_ScanError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(postCols).AddRow("x", "a", "A", "u1", "Alice", 123)
	mock.ExpectQuery(regexp.QuoteMeta(selectPostPageSQL)).WithArgs(5, 0).WillReturnRows(rows)

	if _, err := NewPostRepository(db).List(context.Background(), 5, 0); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
}

func TestPostRepository_GetByID_Miss(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectPostByIDSQL)).WithArgs(99).WillReturnError(sql.ErrNoRows)

	p, err := NewPostRepository(db).GetByID(context.Background(), 99)
	if err != nil || p != nil {
		t.Fatalf("expected (nil, nil), got (%+v, %v)", p, err)
	}
}

func TestPostRepository_Count(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(countPostsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	n, err := NewPostRepository(db).Count(context.Background())
	if err != nil || n != 11 {
		t.Fatalf("Count = (%d, %v), want (11, nil)", n, err)
	}
}
