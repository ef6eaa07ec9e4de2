package repository

import (
	"context"
	"errors"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/model"
)

type PostRepository struct {
	*ginblog.SQLRepository[model.Post]
}

func NewPostRepository(db ginblog.DBTX, dialect ginblog.Dialect, schema Schema) *PostRepository {
	repo := ginblog.NewSQLRepository[model.Post](db, dialect)
	if !schema.PostTags {
		repo.WithColumnExpr("tags", "NULL")
	}
	return &PostRepository{SQLRepository: repo}
}

// FindNewestFirst returns every post ordered by descending id. The publish
// date is a display string and cannot be sorted on.
func (r *PostRepository) FindNewestFirst(ctx context.Context) ([]model.Post, error) {
	return r.FindAll(ctx, ginblog.SortField{Field: "id", Direction: -1})
}

// TitleTaken reports whether a post other than exceptID already uses title.
func (r *PostRepository) TitleTaken(ctx context.Context, title string, exceptID int64) (bool, error) {
	post, err := r.FindOneBy(ctx, "title", title)
	if errors.Is(err, ginblog.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return post.ID != exceptID, nil
}
