package repository

import (
	"context"

	"github.com/klass-lk/ginblog"
	"github.com/klass-lk/ginblog/internal/model"
)

type UserRepository struct {
	*ginblog.SQLRepository[model.User]
}

func NewUserRepository(db ginblog.DBTX, dialect ginblog.Dialect) *UserRepository {
	return &UserRepository{
		SQLRepository: ginblog.NewSQLRepository[model.User](db, dialect),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.FindOneBy(ctx, "email", email)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.ExistsBy(ctx, "email", email)
}

// FindByIDs returns the users with the given ids keyed by id. Unknown ids are
// simply absent from the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.User, error) {
	seen := make(map[int64]bool, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		args = append(args, id)
	}

	users, err := r.FindAllById(ctx, args)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID, nil
}
