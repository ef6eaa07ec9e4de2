package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/middleware"
)

// Base holds what every page handler needs to render and redirect.
type Base struct {
	SecureCookies bool
}

func (b Base) context(c *gin.Context) *ginblog.Context {
	return ginblog.NewContext(c).WithSecureCookies(b.SecureCookies)
}

// render adds the current actor and any pending notice to data and renders
// the named page.
func (b Base) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Actor"] = middleware.CurrentActor(c)
	data["Flash"] = b.context(c).TakeFlash()
	c.HTML(status, name, data)
}

func (b Base) redirectWithNotice(c *gin.Context, location, notice string) {
	b.context(c).Flash(notice)
	c.Redirect(http.StatusFound, location)
}

func noticeOf(err error) string {
	var apiErr ginblog.ApiError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
