package repository

import (
	"context"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/model"
)

type CommentRepository struct {
	*ginblog.SQLRepository[model.Comment]
}

func NewCommentRepository(db ginblog.DBTX, dialect ginblog.Dialect) *CommentRepository {
	return &CommentRepository{
		SQLRepository: ginblog.NewSQLRepository[model.Comment](db, dialect),
	}
}

func (r *CommentRepository) FindByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	return r.FindBy(ctx, "post_id", postID, ginblog.SortField{Field: "id", Direction: 1})
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return r.DeleteBy(ctx, "post_id", postID)
}
