package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/service"
)

// BlogController serves the listing and the static pages.
type BlogController struct {
	Base
	posts   *service.PostService
	contact *service.ContactService
}

func NewBlogController(base Base, posts *service.PostService, contact *service.ContactService) *BlogController {
	return &BlogController{Base: base, posts: posts, contact: contact}
}

func (b *BlogController) Routes() []ginblog.Route {
	return []ginblog.Route{
		{Method: http.MethodGet, Path: "/", Handler: b.Index},
		{Method: http.MethodGet, Path: "/page/:page", Handler: b.Index},
		{Method: http.MethodGet, Path: "/about", Handler: b.About},
		{Method: http.MethodGet, Path: "/contact", Handler: b.Contact},
		{Method: http.MethodPost, Path: "/contact", Handler: b.Contact},
	}
}

func (b *BlogController) Index(c *gin.Context) {
	page := 1
	if raw := c.Param("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ginblog.SendError(c, ginblog.ErrNotFound.New("Page"))
			return
		}
		page = n
	}

	b.render(c, http.StatusOK, "index.html", gin.H{
		"Posts": b.posts.ListPosts(c.Request.Context(), page),
	})
}

func (b *BlogController) About(c *gin.Context) {
	b.render(c, http.StatusOK, "about.html", nil)
}

func (b *BlogController) Contact(c *gin.Context) {
	form := service.ContactForm{}
	if c.Request.Method != http.MethodPost {
		b.render(c, http.StatusOK, "contact.html", gin.H{"Form": form})
		return
	}

	if errs := b.context(c).BindForm(&form); errs != nil {
		b.render(c, http.StatusOK, "contact.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	if err := b.contact.Send(c.Request.Context(), form); err != nil {
		var apiErr ginblog.ApiError
		if !errors.As(err, &apiErr) {
			apiErr = service.ErrMailRelay
		}
		b.render(c, apiErr.Status, "contact.html", gin.H{"Form": form, "Notice": apiErr.Message})
		return
	}
	b.render(c, http.StatusOK, "contact.html", gin.H{"Form": service.ContactForm{}, "MsgSent": true})
}
