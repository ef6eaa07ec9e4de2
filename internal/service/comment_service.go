package service

import (
	"context"

	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/klass-lk/ginblog/internal/repository"
	log "github.com/sirupsen/logrus"
)

type CommentService struct {
	store *repository.Store
}

func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{store: store}
}

// Create adds a comment by actor to the post. Anonymous visitors get
// auth.ErrLoginRequired and nothing is written.
func (s *CommentService) Create(ctx context.Context, actor auth.Actor, postID int64, text string) (int64, error) {
	if err := auth.Authorize(actor, auth.CreateComment, auth.Resource{}); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Posts.FindById(ctx, postID); err != nil {
			return notFound(err, "Post")
		}
		var err error
		id, err = repos.Comments.Save(ctx, model.Comment{
			Text:     text,
			AuthorID: actor.ID,
			PostID:   postID,
		})
		return err
	})
	return id, err
}

func (s *CommentService) Get(ctx context.Context, id int64) (model.Comment, error) {
	comment, err := s.store.Repositories().Comments.FindById(ctx, id)
	if err != nil {
		return model.Comment{}, notFound(err, "Comment")
	}
	return comment, nil
}

// Update replaces the text of a comment and returns the id of its post.
func (s *CommentService) Update(ctx context.Context, actor auth.Actor, id int64, text string) (int64, error) {
	var postID int64
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		comment, err := repos.Comments.FindById(ctx, id)
		if err != nil {
			return notFound(err, "Comment")
		}
		if err := auth.Authorize(actor, auth.EditComment, auth.Resource{OwnerID: comment.AuthorID}); err != nil {
			return err
		}
		comment.Text = text
		postID = comment.PostID
		return repos.Comments.Update(ctx, comment)
	})
	return postID, err
}

// Delete removes a comment and returns the id of the post it belonged to.
func (s *CommentService) Delete(ctx context.Context, actor auth.Actor, id int64) (int64, error) {
	var postID int64
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		comment, err := repos.Comments.FindById(ctx, id)
		if err != nil {
			return notFound(err, "Comment")
		}
		if err := auth.Authorize(actor, auth.DeleteComment, auth.Resource{OwnerID: comment.AuthorID}); err != nil {
			return err
		}
		postID = comment.PostID
		return repos.Comments.Delete(ctx, comment.ID)
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"comment_id": id, "post_id": postID}).Info("comment deleted")
	return postID, nil
}

// ListForPost returns the comments of a post in the order they were written.
func (s *CommentService) ListForPost(ctx context.Context, postID int64) ([]model.CommentView, error) {
	repos := s.store.Repositories()
	comments, err := repos.Comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(comments))
	for i, comment := range comments {
		ids[i] = comment.AuthorID
	}
	authors, err := repos.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]model.CommentView, len(comments))
	for i, comment := range comments {
		author, ok := authors[comment.AuthorID]
		if !ok {
			author = model.PlaceholderAuthor()
		}
		views[i] = model.CommentView{Comment: comment, Author: author}
	}
	return views, nil
}
