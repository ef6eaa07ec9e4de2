package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/model"
	"github.com/klass-lk/ginblog/internal/repository"
	"github.com/klass-lk/ginblog/security"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmailExists   = ginblog.ApiError{ErrorCode: "EMAIL_EXISTS", Message: "You've already signed up with that email, log in instead!", Status: http.StatusConflict}
	ErrUnknownEmail  = ginblog.ApiError{ErrorCode: "UNKNOWN_EMAIL", Message: "That email does not exist, please try again.", Status: http.StatusUnauthorized}
	ErrWrongPassword = ginblog.ApiError{ErrorCode: "WRONG_PASSWORD", Message: "Password incorrect, please try again.", Status: http.StatusUnauthorized}
)

type UserService struct {
	store   *repository.Store
	encoder security.PasswordEncoder
}

func NewUserService(store *repository.Store, encoder security.PasswordEncoder) *UserService {
	return &UserService{store: store, encoder: encoder}
}

// Register creates an account. The first account ever registered becomes
// the administrator.
func (s *UserService) Register(ctx context.Context, form RegisterForm) (model.User, error) {
	user := model.User{
		Email: strings.TrimSpace(form.Email),
		Name:  strings.TrimSpace(form.Name),
	}

	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		exists, err := repos.Users.EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}

		user.Password, err = s.encoder.GetPasswordHash(form.Password)
		if err != nil {
			return err
		}
		user.ID, err = repos.Users.Save(ctx, user)
		return err
	})
	if err != nil {
		return model.User{}, err
	}
	log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.store.Repositories().Users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ginblog.ErrNotFound) {
		return model.User{}, ErrUnknownEmail
	}
	if err != nil {
		return model.User{}, err
	}
	if !s.encoder.IsMatching(user.Password, password) {
		return model.User{}, ErrWrongPassword
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.Repositories().Users.FindById(ctx, id)
	if err != nil {
		return model.User{}, notFound(err, "User")
	}
	return user, nil
}
