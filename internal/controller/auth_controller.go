package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/middleware"
	"github.com/klass-lk/ginblog/internal/service"
)

type AuthController struct {
	Base
	users    *service.UserService
	sessions *middleware.Sessions
}

func NewAuthController(base Base, users *service.UserService, sessions *middleware.Sessions) *AuthController {
	return &AuthController{Base: base, users: users, sessions: sessions}
}

func (a *AuthController) Routes() []ginblog.Route {
	return []ginblog.Route{
		{Method: http.MethodGet, Path: "/register", Handler: a.Register},
		{Method: http.MethodPost, Path: "/register", Handler: a.Register},
		{Method: http.MethodGet, Path: "/login", Handler: a.Login},
		{Method: http.MethodPost, Path: "/login", Handler: a.Login},
		{Method: http.MethodGet, Path: "/logout", Handler: a.Logout},
	}
}

func (a *AuthController) Register(c *gin.Context) {
	form := service.RegisterForm{}
	if c.Request.Method != http.MethodPost {
		a.render(c, http.StatusOK, "register.html", gin.H{"Form": form})
		return
	}
	if errs := a.context(c).BindForm(&form); errs != nil {
		a.render(c, http.StatusOK, "register.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	user, err := a.users.Register(c.Request.Context(), form)
	if errors.Is(err, service.ErrEmailExists) {
		a.redirectWithNotice(c, "/login", service.ErrEmailExists.Message)
		return
	}
	if err != nil {
		ginblog.SendError(c, err)
		return
	}
	if err := a.sessions.Login(c, user); err != nil {
		ginblog.SendError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *AuthController) Login(c *gin.Context) {
	form := service.LoginForm{}
	if c.Request.Method != http.MethodPost {
		a.render(c, http.StatusOK, "login.html", gin.H{"Form": form})
		return
	}
	if errs := a.context(c).BindForm(&form); errs != nil {
		a.render(c, http.StatusOK, "login.html", gin.H{"Form": form, "Errors": errs})
		return
	}

	user, err := a.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, service.ErrUnknownEmail):
		a.redirectWithNotice(c, "/login", service.ErrUnknownEmail.Message)
		return
	case errors.Is(err, service.ErrWrongPassword):
		a.redirectWithNotice(c, "/login", service.ErrWrongPassword.Message)
		return
	case err != nil:
		ginblog.SendError(c, err)
		return
	}
	if err := a.sessions.Login(c, user); err != nil {
		ginblog.SendError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *AuthController) Logout(c *gin.Context) {
	a.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/")
}
