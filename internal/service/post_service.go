package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/klass-lk/ginblog/internal/repository"
	log "github.com/sirupsen/logrus"
)

// PageSize is the number of posts on one listing page.
const PageSize = 5

var errLoginToEditPost = ginblog.ApiError{
	ErrorCode: auth.ErrLoginRequired.ErrorCode,
	Message:   "You need to login to edit posts.",
	Status:    auth.ErrLoginRequired.Status,
}

type PostService struct {
	store *repository.Store
	now   func() time.Time
}

func NewPostService(store *repository.Store, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{store: store, now: now}
}

// ListPosts returns one page of posts, newest first. It never fails: any
// error or panic while assembling the page is logged and an empty page is
// returned instead.
func (s *PostService) ListPosts(ctx context.Context, page int) (result ginblog.PageResponse[model.PostView]) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"page": page, "panic": r}).Error("listing posts panicked")
			result = ginblog.EmptyPage[model.PostView](PageSize)
		}
	}()

	result, err := s.listPosts(ctx, page)
	if err != nil {
		log.WithField("page", page).WithError(err).Error("listing posts failed")
		return ginblog.EmptyPage[model.PostView](PageSize)
	}
	return result
}

func (s *PostService) listPosts(ctx context.Context, page int) (ginblog.PageResponse[model.PostView], error) {
	repos := s.store.Repositories()

	posts, err := repos.Posts.FindNewestFirst(ctx)
	if err != nil {
		return ginblog.PageResponse[model.PostView]{}, err
	}
	window := ginblog.Paginate(posts, ginblog.PageRequest{Page: page, Size: PageSize})

	views, err := resolvePosts(ctx, repos.Users, window.Contents)
	if err != nil {
		return ginblog.PageResponse[model.PostView]{}, err
	}
	return ginblog.PageResponse[model.PostView]{
		Contents:         views,
		NumberOfElements: len(views),
		Pageable:         window.Pageable,
		TotalPages:       window.TotalPages,
		TotalElements:    window.TotalElements,
	}, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (model.PostView, error) {
	repos := s.store.Repositories()
	post, err := repos.Posts.FindById(ctx, id)
	if err != nil {
		return model.PostView{}, notFound(err, "Post")
	}
	views, err := resolvePosts(ctx, repos.Users, []model.Post{post})
	if err != nil {
		return model.PostView{}, err
	}
	return views[0], nil
}

// Create stores a new post authored by actor and dated today.
func (s *PostService) Create(ctx context.Context, actor auth.Actor, form PostForm) (int64, error) {
	if err := auth.Authorize(actor, auth.CreatePost, auth.Resource{}); err != nil {
		return 0, err
	}

	var id int64
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if err := checkTitle(ctx, repos.Posts, form.Title, 0); err != nil {
			return err
		}
		var err error
		id, err = repos.Posts.Save(ctx, model.Post{
			AuthorID: nullID(actor.ID),
			Title:    strings.TrimSpace(form.Title),
			Subtitle: strings.TrimSpace(form.Subtitle),
			Date:     s.now().Format(model.DateLayout),
			Body:     form.Body,
			ImgURL:   strings.TrimSpace(form.ImgURL),
			Tags:     model.TagsValue(form.Tags),
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"post_id": id, "actor": actor.ID}).Info("post created")
	return id, nil
}

// Update overwrites the editable fields of a post and makes actor its author.
// Any signed-in actor may edit; only anonymous visitors are turned away.
func (s *PostService) Update(ctx context.Context, actor auth.Actor, id int64, form PostForm) error {
	if !actor.IsAuthenticated() {
		return errLoginToEditPost
	}

	return s.store.InTx(ctx, func(repos *repository.Repositories) error {
		post, err := repos.Posts.FindById(ctx, id)
		if err != nil {
			return notFound(err, "Post")
		}
		if err := checkTitle(ctx, repos.Posts, form.Title, post.ID); err != nil {
			return err
		}

		post.Title = strings.TrimSpace(form.Title)
		post.Subtitle = strings.TrimSpace(form.Subtitle)
		post.ImgURL = strings.TrimSpace(form.ImgURL)
		post.Body = form.Body
		post.Tags = model.TagsValue(form.Tags)
		post.AuthorID = nullID(actor.ID)
		return repos.Posts.Update(ctx, post)
	})
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := auth.Authorize(actor, auth.DeletePost, auth.Resource{}); err != nil {
		return err
	}

	return s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Posts.FindById(ctx, id); err != nil {
			return notFound(err, "Post")
		}
		removed, err := repos.Comments.DeleteByPost(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.Posts.Delete(ctx, id); err != nil {
			return err
		}
		log.WithFields(log.Fields{"post_id": id, "comments": removed}).Info("post deleted")
		return nil
	})
}

func checkTitle(ctx context.Context, posts *repository.PostRepository, title string, exceptID int64) error {
	taken, err := posts.TitleTaken(ctx, strings.TrimSpace(title), exceptID)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if taken {
		return ginblog.FormErrors{"title": "A post with this title already exists."}
	}
	return nil
}

func resolvePosts(ctx context.Context, users *repository.UserRepository, posts []model.Post) ([]model.PostView, error) {
	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		if post.AuthorID.Valid {
			ids = append(ids, post.AuthorID.Int64)
		}
	}
	authors, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}

	views := make([]model.PostView, len(posts))
	for i, post := range posts {
		author, ok := authors[post.AuthorID.Int64]
		if !post.AuthorID.Valid || !ok {
			author = model.PlaceholderAuthor()
		}
		views[i] = model.PostView{
			Post:    post,
			Author:  author,
			TagList: model.ResolveTags(post.Tags),
		}
	}
	return views, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, ginblog.ErrNotFound) {
		return ginblog.ErrNotFound.New(what)
	}
	return err
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}
