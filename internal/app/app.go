package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/config"
	"github.com/klass-lk/ginblog/internal/controller"
	"github.com/klass-lk/ginblog/internal/mail"
	"github.com/klass-lk/ginblog/internal/middleware"
	"github.com/klass-lk/ginblog/internal/repository"
	"github.com/klass-lk/ginblog/internal/service"
	"github.com/klass-lk/ginblog/internal/view"
	"github.com/klass-lk/ginblog/security"
	log "github.com/sirupsen/logrus"
)

type options struct {
	sender  mail.Sender
	now     func() time.Time
	encoder security.PasswordEncoder
}

type Option func(*options)

// WithMailSender replaces the SMTP relay used by the contact form.
func WithMailSender(sender mail.Sender) Option {
	return func(o *options) { o.sender = sender }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithPasswordEncoder(encoder security.PasswordEncoder) Option {
	return func(o *options) { o.encoder = encoder }
}

// DefaultPasswordEncoder hashes with bcrypt and still accepts the pbkdf2
// hashes of accounts registered before bcrypt was introduced.
func DefaultPasswordEncoder() security.PasswordEncoder {
	return security.NewDelegatingEncoder(ginblog.NewCrypt()).
		WithLegacy(security.PBKDF2Prefix, security.NewPBKDF2Encoder())
}

type App struct {
	Config *config.Config
	Store  *repository.Store
	Server *ginblog.Server
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.encoder == nil {
		o.encoder = DefaultPasswordEncoder()
	}
	if o.sender == nil {
		o.sender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Address, cfg.Mail.Password, cfg.Mail.Timeout)
	}

	sqlConfig, err := ginblog.ParseSQLConfig(cfg.Database.URI)
	if err != nil {
		return nil, err
	}
	db, err := sqlConfig.Connect(ctx)
	if err != nil {
		return nil, err
	}
	store, err := repository.Open(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	renderer, err := view.New()
	if err != nil {
		store.Close()
		return nil, err
	}

	posts := service.NewPostService(store, o.now)
	comments := service.NewCommentService(store)
	users := service.NewUserService(store, o.encoder)
	contact := service.NewContactService(o.sender, cfg.Mail.Address, cfg.Mail.Timeout)
	sessions := middleware.NewSessions(users, cfg.Session.SecretKey, cfg.Session.Expiration, cfg.Server.CookieSecure)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	server := ginblog.New()
	if cfg.Server.Lambda {
		server.SetRuntime(ginblog.RuntimeLambda)
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		server.CustomCORS(
			cfg.Server.CORSOrigins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Origin", "Content-Type", "Accept"},
			12*time.Hour,
		)
	}
	server.SetHTMLRenderer(renderer)
	server.Use(
		middleware.RequestLogger(),
		middleware.SecureHeaders(cfg.Server.CookieSecure),
		sessions.Authenticate(),
	)

	engine := server.Engine()
	engine.StaticFS("/static", view.Static())
	engine.NoRoute(func(c *gin.Context) {
		ginblog.SendError(c, ginblog.ErrNotFound.New("Page"))
	})

	base := controller.Base{SecureCookies: cfg.Server.CookieSecure}
	server.RegisterControllers(
		controller.NewBlogController(base, posts, contact),
		controller.NewAuthController(base, users, sessions),
		controller.NewPostController(base, posts, comments),
		controller.NewCommentController(base, comments),
	)

	log.WithField("dialect", db.Dialect).Info("blog initialised")
	return &App{Config: cfg, Store: store, Server: server}, nil
}

func (a *App) Handler() http.Handler {
	return a.Server.Engine()
}

func (a *App) Run() error {
	return a.Server.Start(a.Config.Server.Port)
}

func (a *App) Close() error {
	return a.Store.Close()
}
