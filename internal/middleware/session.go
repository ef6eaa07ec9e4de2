package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/auth"
	"github.com/klass-lk/ginblog/internal/model"
	log "github.com/sirupsen/logrus"
)

const SessionCookie = "session"

type UserLookup interface {
	Get(ctx context.Context, id int64) (model.User, error)
}

// Sessions keeps the signed-in user in a signed cookie.
type Sessions struct {
	users      UserLookup
	secretKey  string
	expiration time.Duration
	secure     bool
}

func NewSessions(users UserLookup, secretKey string, expiration time.Duration, secure bool) *Sessions {
	return &Sessions{
		users:      users,
		secretKey:  secretKey,
		expiration: expiration,
		secure:     secure,
	}
}

// Authenticate resolves the session cookie into an actor and stores it under
// ginblog.ActorKey. Requests without a valid session continue anonymously.
func (s *Sessions) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.Anonymous

		if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
			userID, err := ginblog.ParseSessionToken(token, s.secretKey)
			if err == nil {
				var user model.User
				user, err = s.users.Get(c.Request.Context(), userID)
				if err == nil {
					actor = auth.Actor{ID: user.ID, Name: user.Name, Email: user.Email}
				}
			}
			switch {
			case err == nil:
			case errors.Is(err, ginblog.ErrInvalidSession), errors.Is(err, ginblog.ErrNotFound):
				log.WithError(err).Debug("discarding session cookie")
				s.Logout(c)
			default:
				// store errors keep the session for the next request
				log.WithError(err).Warn("session user lookup failed")
			}
		}

		c.Set(ginblog.ActorKey, actor)
		c.Next()
	}
}

func (s *Sessions) Login(c *gin.Context, user model.User) error {
	token, err := ginblog.GenerateSessionToken(user.ID, s.secretKey, s.expiration)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.expiration.Seconds()), "/", "", s.secure, true)
	c.Set(ginblog.ActorKey, auth.Actor{ID: user.ID, Name: user.Name, Email: user.Email})
	return nil
}

func (s *Sessions) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
	c.Set(ginblog.ActorKey, auth.Anonymous)
}

// CurrentActor returns the actor stored by Authenticate, or an anonymous
// actor when there is none.
func CurrentActor(c *gin.Context) auth.Actor {
	if value, ok := c.Get(ginblog.ActorKey); ok {
		if actor, ok := value.(auth.Actor); ok {
			return actor
		}
	}
	return auth.Anonymous
}
