package repository

import (
	"context"

	"github.com/klass-lk/ginblog"
	log "github.com/sirupsen/logrus"
)

// Store owns the connection pool and hands out repositories bound either to
// the pool or to a single transaction.
type Store struct {
	db     *ginblog.DB
	schema Schema
}

// Open migrates the database and inspects the resulting schema. A failed
// migration is logged and the store keeps serving whatever columns exist.
func Open(ctx context.Context, db *ginblog.DB) (*Store, error) {
	if err := Migrate(ctx, db); err != nil {
		log.WithError(err).Warn("schema migration failed")
	}
	schema, err := Inspect(ctx, db)
	if err != nil {
		return nil, err
	}
	if !schema.PostTags {
		log.Warn("blog_posts.tags is missing, posts are listed with the default tag")
	}
	return NewStore(db, schema), nil
}

func NewStore(db *ginblog.DB, schema Schema) *Store {
	return &Store{db: db, schema: schema}
}

func (s *Store) DB() *ginblog.DB {
	return s.db
}

func (s *Store) Schema() Schema {
	return s.schema
}

// Repositories returns repositories that run each statement on its own.
func (s *Store) Repositories() *Repositories {
	return newRepositories(s.db, s.db.Dialect, s.schema)
}

// InTx runs fn with repositories sharing one transaction. Nothing fn wrote is
// kept unless it returns nil.
func (s *Store) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.db.WithTx(ctx, func(tx ginblog.DBTX) error {
		return fn(newRepositories(tx, s.db.Dialect, s.schema))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}

type Repositories struct {
	Users    *UserRepository
	Posts    *PostRepository
	Comments *CommentRepository
}

func newRepositories(db ginblog.DBTX, dialect ginblog.Dialect, schema Schema) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db, dialect),
		Posts:    NewPostRepository(db, dialect, schema),
		Comments: NewCommentRepository(db, dialect),
	}
}
