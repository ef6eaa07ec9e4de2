package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/middleware"
	"github.com/klass-lk/ginblog/internal/service"
)

type PostController struct {
	Base
	posts    *service.PostService
	comments *service.CommentService
}

func NewPostController(base Base, posts *service.PostService, comments *service.CommentService) *PostController {
	return &PostController{Base: base, posts: posts, comments: comments}
}

func (p *PostController) Routes() []ginblog.Route {
	return []ginblog.Route{
		{Method: http.MethodGet, Path: "/post/:id", Handler: p.Show},
		{Method: http.MethodPost, Path: "/post/:id", Handler: p.Show},
		{Method: http.MethodGet, Path: "/new-post", Handler: p.Create},
		{Method: http.MethodPost, Path: "/new-post", Handler: p.Create},
		{Method: http.MethodGet, Path: "/edit-post/:id", Handler: p.Edit},
		{Method: http.MethodPost, Path: "/edit-post/:id", Handler: p.Edit},
		{Method: http.MethodGet, Path: "/delete/:id", Handler: p.Delete},
	}
}

// Show renders a post with its comments. A POST adds a comment and renders
// the same page again.
func (p *PostController) Show(c *gin.Context) {
	ctx := p.context(c)
	id, err := ctx.PathID("id", "Post")
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	post, err := p.posts.Get(c.Request.Context(), id)
	if err != nil {
		ginblog.SendError(c, err)
		return
	}

	form := service.CommentForm{}
	var errs ginblog.FormErrors
	if c.Request.Method == http.MethodPost {
		errs = ctx.BindForm(&form)
		if errs == nil {
			_, err := p.comments.Create(c.Request.Context(), middleware.CurrentActor(c), id, form.Text)
			if errors.Is(err, auth.ErrLoginRequired) {
				p.redirectWithNotice(c, "/login", noticeOf(err))
				return
			}
			if err != nil {
				ginblog.SendError(c, err)
				return
			}
			form = service.CommentForm{}
		}
	}

	comments, err := p.comments.ListForPost(c.Request.Context(), id)
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	p.render(c, http.StatusOK, "post.html", gin.H{
		"Post":     post,
		"Comments": comments,
		"Form":     form,
		"Errors":   errs,
	})
}

func (p *PostController) Create(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if err := auth.Authorize(actor, auth.CreatePost, auth.Resource{}); err != nil {
		ginblog.SendError(c, err)
		return
	}

	form := service.PostForm{}
	data := gin.H{"Form": &form, "Action": "/new-post"}
	if c.Request.Method == http.MethodPost {
		if errs := p.context(c).BindForm(&form); errs != nil {
			data["Errors"] = errs
			p.render(c, http.StatusOK, "make-post.html", data)
			return
		}
		_, err := p.posts.Create(c.Request.Context(), actor, form)
		var formErrs ginblog.FormErrors
		if errors.As(err, &formErrs) {
			data["Errors"] = formErrs
			p.render(c, http.StatusOK, "make-post.html", data)
			return
		}
		if err != nil {
			ginblog.SendError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/")
		return
	}
	p.render(c, http.StatusOK, "make-post.html", data)
}

// Edit shows the post form prefilled and saves it on submit. Saving makes the
// signed-in actor the author of the post.
func (p *PostController) Edit(c *gin.Context) {
	ctx := p.context(c)
	id, err := ctx.PathID("id", "Post")
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	post, err := p.posts.Get(c.Request.Context(), id)
	if err != nil {
		ginblog.SendError(c, err)
		return
	}

	form := service.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
		Tags:     post.Tags.String,
	}
	data := gin.H{"IsEdit": true, "Action": fmt.Sprintf("/edit-post/%d", id)}

	if c.Request.Method == http.MethodPost {
		form = service.PostForm{}
		errs := ctx.BindForm(&form)
		if errs == nil {
			err = p.posts.Update(c.Request.Context(), middleware.CurrentActor(c), id, form)
			switch {
			case err == nil:
				c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", id))
				return
			case errors.Is(err, auth.ErrLoginRequired):
				p.redirectWithNotice(c, "/login", noticeOf(err))
				return
			case !errors.As(err, &errs):
				ginblog.SendError(c, err)
				return
			}
		}
		data["Errors"] = errs
	}

	data["Form"] = form
	p.render(c, http.StatusOK, "make-post.html", data)
}

func (p *PostController) Delete(c *gin.Context) {
	id, err := p.context(c).PathID("id", "Post")
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	if err := p.posts.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		ginblog.SendError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
