package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/middleware"
	"github.com/klass-lk/ginblog/internal/service"
)

type CommentController struct {
	Base
	comments *service.CommentService
}

func NewCommentController(base Base, comments *service.CommentService) *CommentController {
	return &CommentController{Base: base, comments: comments}
}

func (cc *CommentController) Routes() []ginblog.Route {
	return []ginblog.Route{
		{Method: http.MethodGet, Path: "/edit-comment/:id", Handler: cc.Edit},
		{Method: http.MethodPost, Path: "/edit-comment/:id", Handler: cc.Edit},
		{Method: http.MethodPost, Path: "/delete-comment/:id", Handler: cc.Delete},
	}
}

func (cc *CommentController) Edit(c *gin.Context) {
	ctx := cc.context(c)
	id, err := ctx.PathID("id", "Comment")
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	comment, err := cc.comments.Get(c.Request.Context(), id)
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	actor := middleware.CurrentActor(c)
	if err := auth.Authorize(actor, auth.EditComment, auth.Resource{OwnerID: comment.AuthorID}); err != nil {
		ginblog.SendError(c, err)
		return
	}

	form := service.CommentForm{Text: comment.Text}
	var errs ginblog.FormErrors
	if c.Request.Method == http.MethodPost {
		form = service.CommentForm{}
		if errs = ctx.BindForm(&form); errs == nil {
			postID, err := cc.comments.Update(c.Request.Context(), actor, id, form.Text)
			if err != nil {
				ginblog.SendError(c, err)
				return
			}
			c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
			return
		}
	}

	cc.render(c, http.StatusOK, "edit-comment.html", gin.H{
		"Comment": comment,
		"Form":    form,
		"Errors":  errs,
	})
}

// Delete removes a comment and returns to the post it was written on.
func (cc *CommentController) Delete(c *gin.Context) {
	id, err := cc.context(c).PathID("id", "Comment")
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	postID, err := cc.comments.Delete(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
}
